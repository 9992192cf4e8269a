package dto

import "time"

// AdminStatusResponse is the payload for /admin/status-by-email. An
// unknown email is a 404; a known user with no active session is a 200
// with is_blocking=false and empty lists, so the caller can tell the two
// apart.
type AdminStatusResponse struct {
	Valid                bool       `json:"valid"`
	UserID               string     `json:"user_id"`
	IsBlocking           bool       `json:"is_blocking"`
	ProfileID            *string    `json:"profile_id"`
	ProfileName          *string    `json:"profile_name"`
	SessionID            *string    `json:"session_id"`
	StartedAt            *time.Time `json:"started_at"`
	RestrictedApps       []string   `json:"restricted_apps"`
	RestrictedCategories []string   `json:"restricted_categories"`
}

type AdminUnblockResponse struct {
	UserID        string   `json:"user_id"`
	ProfileID     string   `json:"profile_id"`
	UnblockedApp  string   `json:"unblocked_app"`
	RemainingApps []string `json:"remaining_apps"`
}

type AdminEndBlockingResponse struct {
	UserID        string `json:"user_id"`
	SessionsEnded int64  `json:"sessions_ended"`
}

type AdminStartBlockingResponse struct {
	UserID     string    `json:"user_id"`
	ProfileID  string    `json:"profile_id"`
	SessionID  string    `json:"session_id"`
	IsBlocking bool      `json:"is_blocking"`
	StartedAt  time.Time `json:"started_at"`
}
