package dto

import "time"

type ProfileCreateRequest struct {
	Name                 string   `json:"name"`
	Icon                 string   `json:"icon"`
	RestrictedApps       []string `json:"restricted_apps"`
	RestrictedCategories []string `json:"restricted_categories"`
	IsDefault            bool     `json:"is_default"`
}

// ProfileUpdateRequest carries replace-if-present semantics: every nil
// field leaves the stored value untouched.
type ProfileUpdateRequest struct {
	Name                 *string   `json:"name"`
	Icon                 *string   `json:"icon"`
	RestrictedApps       *[]string `json:"restricted_apps"`
	RestrictedCategories *[]string `json:"restricted_categories"`
}

type ProfileResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Icon                 string    `json:"icon"`
	RestrictedApps       []string  `json:"restricted_apps"`
	RestrictedCategories []string  `json:"restricted_categories"`
	IsDefault            bool      `json:"is_default"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// RestrictedAppsResponse is the live (projected) restriction set for a
// profile: the stored lists while a session is active, empty otherwise.
type RestrictedAppsResponse struct {
	RestrictedApps       []string `json:"restricted_apps"`
	RestrictedCategories []string `json:"restricted_categories"`
}
