package models

import (
	"time"

	"github.com/google/uuid"
)

// User is created on first registration by Apple subject id and is
// immutable afterwards, except that a blank email or name is backfilled
// when a later registration supplies one.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppleUserID string    `gorm:"size:255;not null;uniqueIndex" json:"apple_user_id"`
	Email       *string   `gorm:"size:255;uniqueIndex" json:"email"`
	Name        string    `gorm:"size:255" json:"name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
