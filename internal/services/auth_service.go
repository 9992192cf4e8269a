package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/unlatch-ai/poke-daddy/internal/config"
	"github.com/unlatch-ai/poke-daddy/internal/dto"
	"github.com/unlatch-ai/poke-daddy/internal/models"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a user keyed by Apple subject id, together with a
// "Default" profile, and returns a bearer token. Registering an existing
// subject id is a login: the stored user is reused, with blank email or
// name backfilled from the request.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if req.AppleUserID == "" {
		return nil, errors.New("apple_user_id is required")
	}

	var user models.User
	err := s.db.Where("apple_user_id = ?", req.AppleUserID).First(&user).Error
	if err == nil {
		updates := map[string]interface{}{}
		if user.Email == nil && req.Email != "" {
			updates["email"] = req.Email
		}
		if user.Name == "" && req.Name != "" {
			updates["name"] = req.Name
		}
		if len(updates) > 0 {
			if err := s.db.Model(&user).Updates(updates).Error; err != nil {
				return nil, fmt.Errorf("failed to backfill user: %w", err)
			}
		}
		return s.issueToken(&user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = models.User{
		ID:          uuid.New(),
		AppleUserID: req.AppleUserID,
		Name:        req.Name,
		IsActive:    true,
	}
	if req.Email != "" {
		email := req.Email
		user.Email = &email
	}

	defaultProfile := models.Profile{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      "Default",
		Icon:      "bell.slash",
		IsDefault: true,
	}
	defaultProfile.SetAppList(nil)
	defaultProfile.SetCategoryList(nil)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&defaultProfile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(&user)
}

// GetUser returns the user for an authenticated request.
func (s *AuthService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail resolves the admin surface's email key to a user.
func (s *AuthService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueToken(user *models.User) (*dto.TokenResponse, error) {
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	if user.Email != nil {
		claims["email"] = *user.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.TokenResponse{AccessToken: signed, TokenType: "bearer"}, nil
}
