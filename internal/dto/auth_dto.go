package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	AppleUserID string `json:"apple_user_id"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       *string   `json:"email"`
	Name        string    `json:"name"`
	AppleUserID string    `json:"apple_user_id"`
	IsActive    bool      `json:"is_active"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
