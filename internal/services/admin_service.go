package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/unlatch-ai/poke-daddy/internal/dto"
)

// AdminService backs the email-keyed admin surface used by the external
// tool gateway. It carries no authentication of its own: the trust
// boundary is the optional shared admin token checked in middleware.
type AdminService struct {
	auth     *AuthService
	profiles *ProfileService
	blocking *BlockingService
}

func NewAdminService(auth *AuthService, profiles *ProfileService, blocking *BlockingService) *AdminService {
	return &AdminService{auth: auth, profiles: profiles, blocking: blocking}
}

// StatusByEmail resolves a user's blocking state. Unknown email is
// ErrUserNotFound; a known user who is not blocking gets a valid,
// inactive-shaped payload. A session whose profile row has gone missing
// degrades to empty restriction lists instead of failing.
func (s *AdminService) StatusByEmail(email string) (*dto.AdminStatusResponse, error) {
	user, err := s.auth.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	resp := &dto.AdminStatusResponse{
		Valid:                true,
		UserID:               user.ID.String(),
		RestrictedApps:       []string{},
		RestrictedCategories: []string{},
	}

	session, err := s.blocking.ActiveSession(user.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return resp, nil
	}

	resp.IsBlocking = true
	sessionID := session.ID.String()
	profileID := session.ProfileID.String()
	startedAt := session.StartedAt
	resp.SessionID = &sessionID
	resp.ProfileID = &profileID
	resp.StartedAt = &startedAt

	profile, err := s.profiles.Get(user.ID, session.ProfileID)
	if errors.Is(err, ErrProfileNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	resp.ProfileName = &profile.Name
	resp.RestrictedApps = profile.AppList()
	resp.RestrictedCategories = profile.CategoryList()
	return resp, nil
}

func (s *AdminService) UnblockAppByEmail(email, appBundleID string) (*dto.AdminUnblockResponse, error) {
	user, err := s.auth.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	profile, remaining, err := s.blocking.UnblockApp(user.ID, appBundleID)
	if err != nil {
		return nil, err
	}

	return &dto.AdminUnblockResponse{
		UserID:        user.ID.String(),
		ProfileID:     profile.ID.String(),
		UnblockedApp:  appBundleID,
		RemainingApps: remaining,
	}, nil
}

func (s *AdminService) EndBlockingByEmail(email string) (*dto.AdminEndBlockingResponse, error) {
	user, err := s.auth.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	ended, err := s.blocking.EndAll(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AdminEndBlockingResponse{
		UserID:        user.ID.String(),
		SessionsEnded: ended,
	}, nil
}

func (s *AdminService) StartBlockingByEmail(email string, profileID *uuid.UUID, profileName string) (*dto.AdminStartBlockingResponse, error) {
	user, err := s.auth.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Resolve(user.ID, profileID, profileName)
	if err != nil {
		return nil, err
	}

	session, err := s.blocking.Start(user.ID, profile.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AdminStartBlockingResponse{
		UserID:     user.ID.String(),
		ProfileID:  profile.ID.String(),
		SessionID:  session.ID.String(),
		IsBlocking: true,
		StartedAt:  session.StartedAt,
	}, nil
}

// UnblockApp is the id-keyed variant kept for older gateway builds.
func (s *AdminService) UnblockApp(userID, profileID uuid.UUID, appBundleID string) (*dto.AdminUnblockResponse, error) {
	profile, remaining, err := s.blocking.UnblockAppForProfile(userID, profileID, appBundleID)
	if err != nil {
		return nil, err
	}

	return &dto.AdminUnblockResponse{
		UserID:        userID.String(),
		ProfileID:     profile.ID.String(),
		UnblockedApp:  appBundleID,
		RemainingApps: remaining,
	}, nil
}

// EndBlocking is the id-keyed variant: it ends the single session for
// one (user, profile) pair instead of all of the user's sessions.
func (s *AdminService) EndBlocking(userID, profileID uuid.UUID) (*dto.AdminEndBlockingResponse, error) {
	if _, err := s.blocking.End(userID, profileID); err != nil {
		return nil, err
	}
	return &dto.AdminEndBlockingResponse{
		UserID:        userID.String(),
		SessionsEnded: 1,
	}, nil
}
