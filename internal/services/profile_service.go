package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unlatch-ai/poke-daddy/internal/dto"
	"github.com/unlatch-ai/poke-daddy/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound         = errors.New("profile not found")
	ErrDefaultProfileProtected = errors.New("cannot delete default profile")
	ErrNoProfiles              = errors.New("user has no profiles")
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) List(userID uuid.UUID) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (s *ProfileService) Get(userID, profileID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Where("id = ? AND user_id = ?", profileID, userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func (s *ProfileService) Create(userID uuid.UUID, req *dto.ProfileCreateRequest) (*models.Profile, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	icon := req.Icon
	if icon == "" {
		icon = "bell.slash"
	}

	profile := models.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      req.Name,
		Icon:      icon,
		IsDefault: req.IsDefault,
	}
	profile.SetAppList(req.RestrictedApps)
	profile.SetCategoryList(req.RestrictedCategories)

	if err := s.db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &profile, nil
}

// Update applies replace-if-present semantics: only non-nil request
// fields overwrite stored values.
func (s *ProfileService) Update(userID, profileID uuid.UUID, req *dto.ProfileUpdateRequest) (*models.Profile, error) {
	profile, err := s.Get(userID, profileID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Icon != nil {
		profile.Icon = *req.Icon
	}
	if req.RestrictedApps != nil {
		profile.SetAppList(*req.RestrictedApps)
	}
	if req.RestrictedCategories != nil {
		profile.SetCategoryList(*req.RestrictedCategories)
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// Delete removes a profile. The default profile cannot be deleted,
// regardless of session state.
func (s *ProfileService) Delete(userID, profileID uuid.UUID) error {
	profile, err := s.Get(userID, profileID)
	if err != nil {
		return err
	}
	if profile.IsDefault {
		return ErrDefaultProfileProtected
	}
	return s.db.Delete(profile).Error
}

// EffectiveRestrictions projects the live restriction lists for a
// profile: the stored lists if and only if the profile has an active
// session for its owner, empty lists otherwise. Recomputed on every call
// because unblocking shrinks the stored list mid-session.
func (s *ProfileService) EffectiveRestrictions(userID, profileID uuid.UUID) (*dto.RestrictedAppsResponse, error) {
	profile, err := s.Get(userID, profileID)
	if err != nil {
		return nil, err
	}

	var count int64
	err = s.db.Model(&models.BlockingSession{}).
		Where("user_id = ? AND profile_id = ? AND is_active = ?", userID, profileID, true).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}

	if count == 0 {
		return &dto.RestrictedAppsResponse{
			RestrictedApps:       []string{},
			RestrictedCategories: []string{},
		}, nil
	}

	return &dto.RestrictedAppsResponse{
		RestrictedApps:       profile.AppList(),
		RestrictedCategories: profile.CategoryList(),
	}, nil
}

// Resolve picks a profile for admin start-by-email: explicit id first,
// then name match, then the default flag, then the oldest profile.
func (s *ProfileService) Resolve(userID uuid.UUID, profileID *uuid.UUID, profileName string) (*models.Profile, error) {
	if profileID != nil {
		return s.Get(userID, *profileID)
	}

	profiles, err := s.List(userID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNoProfiles
	}

	if profileName != "" {
		for i := range profiles {
			if profiles[i].Name == profileName {
				return &profiles[i], nil
			}
		}
	}
	for i := range profiles {
		if profiles[i].IsDefault {
			return &profiles[i], nil
		}
	}
	return &profiles[0], nil
}
