package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unlatch-ai/poke-daddy/internal/config"
	"github.com/unlatch-ai/poke-daddy/internal/dto"
	"github.com/unlatch-ai/poke-daddy/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoActiveSession = errors.New("no active blocking session")
	ErrInvalidAction   = errors.New("invalid action, only 'start' is allowed")
)

// BlockingService owns the per-user session state machine. Users can only
// ever start sessions; Unblock and End are reachable through the admin
// surface alone, so the resource owner can add restriction but never
// remove it.
type BlockingService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewBlockingService(db *gorm.DB, cfg *config.Config) *BlockingService {
	return &BlockingService{db: db, cfg: cfg}
}

// Start transitions a (user, profile) pair to Active. Starting an
// already-active pair is idempotent and returns the existing session
// unchanged. With cfg.ExclusiveSessions (the default), active sessions
// for the user's other profiles are ended first, so at most one session
// is active per user; without it, sessions for different profiles may
// overlap and only the per-pair invariant holds.
//
// The check and insert run in one transaction; the partial unique index
// on (user_id, profile_id) WHERE is_active catches the remaining race
// between two concurrent first starts, which converges by re-reading the
// winner's row.
func (s *BlockingService) Start(userID, profileID uuid.UUID) (*models.BlockingSession, error) {
	var session models.BlockingSession

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.findActive(tx, userID, profileID, true)
		if err != nil {
			return err
		}
		if existing != nil {
			session = *existing
			return nil
		}

		if s.cfg.ExclusiveSessions {
			now := time.Now().UTC()
			err := tx.Model(&models.BlockingSession{}).
				Where("user_id = ? AND is_active = ?", userID, true).
				Updates(map[string]interface{}{"is_active": false, "ended_at": now}).Error
			if err != nil {
				return fmt.Errorf("failed to end previous sessions: %w", err)
			}
		}

		session = models.BlockingSession{
			ID:        uuid.New(),
			UserID:    userID,
			ProfileID: profileID,
			IsActive:  true,
			StartedAt: time.Now().UTC(),
		}
		return tx.Create(&session).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent Start for the same pair.
		existing, ferr := s.findActive(s.db, userID, profileID, true)
		if ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// End ends the single active session for a (user, profile) pair.
func (s *BlockingService) End(userID, profileID uuid.UUID) (*models.BlockingSession, error) {
	var session models.BlockingSession

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.findActive(tx, userID, profileID, true)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNoActiveSession
		}

		now := time.Now().UTC()
		err = tx.Model(existing).
			Updates(map[string]interface{}{"is_active": false, "ended_at": now}).Error
		if err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}

		session = *existing
		session.IsActive = false
		session.EndedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// EndAll ends every active session for the user and reports how many it
// ended. Zero active sessions is ErrNoActiveSession; callers retrying a
// timed-out End treat that as already done.
func (s *BlockingService) EndAll(userID uuid.UUID) (int64, error) {
	now := time.Now().UTC()
	result := s.db.Model(&models.BlockingSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{"is_active": false, "ended_at": now})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to end sessions: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrNoActiveSession
	}
	return result.RowsAffected, nil
}

// UnblockApp removes one app from the profile governing the user's
// active session. The session itself stays active. Removing an app that
// is not on the list succeeds as a no-op. Without an active session the
// call fails: unblocking is only meaningful while blocking.
func (s *BlockingService) UnblockApp(userID uuid.UUID, appBundleID string) (*models.Profile, []string, error) {
	var profile models.Profile
	var remaining []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.activeForUser(tx, userID, true)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrNoActiveSession
		}

		err = withLock(tx).
			Where("id = ?", session.ProfileID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		apps := profile.AppList()
		remaining = make([]string, 0, len(apps))
		for _, app := range apps {
			if app != appBundleID {
				remaining = append(remaining, app)
			}
		}
		if len(remaining) == len(apps) {
			// Not on the list; unchanged set, reported as success.
			return nil
		}

		profile.SetAppList(remaining)
		profile.UpdatedAt = time.Now().UTC()
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &profile, remaining, nil
}

// UnblockAppForProfile is the id-keyed admin variant: it targets an
// explicit (user, profile) pair instead of whichever session is active.
func (s *BlockingService) UnblockAppForProfile(userID, profileID uuid.UUID, appBundleID string) (*models.Profile, []string, error) {
	var profile models.Profile
	var remaining []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.findActive(tx, userID, profileID, true)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrNoActiveSession
		}

		err = withLock(tx).
			Where("id = ? AND user_id = ?", profileID, userID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		apps := profile.AppList()
		remaining = make([]string, 0, len(apps))
		for _, app := range apps {
			if app != appBundleID {
				remaining = append(remaining, app)
			}
		}
		if len(remaining) == len(apps) {
			return nil
		}

		profile.SetAppList(remaining)
		profile.UpdatedAt = time.Now().UTC()
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &profile, remaining, nil
}

// Status reports the user's current blocking state.
func (s *BlockingService) Status(userID uuid.UUID) (*dto.BlockingStatusResponse, error) {
	session, err := s.activeForUser(s.db, userID, false)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &dto.BlockingStatusResponse{IsBlocking: false}, nil
	}

	profileID := session.ProfileID.String()
	sessionID := session.ID.String()
	startedAt := session.StartedAt
	return &dto.BlockingStatusResponse{
		IsBlocking: true,
		ProfileID:  &profileID,
		SessionID:  &sessionID,
		StartedAt:  &startedAt,
	}, nil
}

// ActiveSession returns the user's most recent active session, or nil.
func (s *BlockingService) ActiveSession(userID uuid.UUID) (*models.BlockingSession, error) {
	return s.activeForUser(s.db, userID, false)
}

func (s *BlockingService) findActive(tx *gorm.DB, userID, profileID uuid.UUID, lock bool) (*models.BlockingSession, error) {
	var session models.BlockingSession
	q := tx.Where("user_id = ? AND profile_id = ? AND is_active = ?", userID, profileID, true)
	if lock {
		q = withLock(q)
	}
	err := q.First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}
	return &session, nil
}

func (s *BlockingService) activeForUser(tx *gorm.DB, userID uuid.UUID, lock bool) (*models.BlockingSession, error) {
	var session models.BlockingSession
	q := tx.Where("user_id = ? AND is_active = ?", userID, true).Order("started_at DESC")
	if lock {
		q = withLock(q)
	}
	err := q.First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}
	return &session, nil
}

// withLock adds SELECT ... FOR UPDATE on Postgres. SQLite (used in
// tests) serializes writers on its own and rejects the syntax.
func withLock(q *gorm.DB) *gorm.DB {
	if q.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}
