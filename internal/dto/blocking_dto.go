package dto

import "time"

type BlockingToggleRequest struct {
	ProfileID string `json:"profile_id"`
	Action    string `json:"action"`
}

type BlockingStatusResponse struct {
	IsBlocking bool       `json:"is_blocking"`
	ProfileID  *string    `json:"profile_id"`
	SessionID  *string    `json:"session_id"`
	StartedAt  *time.Time `json:"started_at"`
}
