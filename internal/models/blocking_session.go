package models

import (
	"time"

	"github.com/google/uuid"
)

// BlockingSession records one enforcement window for a (user, profile)
// pair. Sessions are never deleted: ending one clears is_active and sets
// ended_at in the same update, leaving history behind. At most one active
// session may exist per (user, profile); a partial unique index backstops
// the transactional check in the blocking service.
type BlockingSession struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ProfileID uuid.UUID  `gorm:"type:uuid;not null;index" json:"profile_id"`
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}
