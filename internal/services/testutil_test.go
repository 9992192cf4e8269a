package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/unlatch-ai/poke-daddy/internal/config"
	"github.com/unlatch-ai/poke-daddy/internal/database"
	"github.com/unlatch-ai/poke-daddy/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A pooled :memory: connection per goroutine would mean a database
	// per connection; pin the pool to one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testConfig(exclusive bool) *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   30 * time.Minute,
		ExclusiveSessions: exclusive,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{
		ID:          uuid.New(),
		AppleUserID: "apple-" + uuid.NewString(),
		IsActive:    true,
	}
	if email != "" {
		user.Email = &email
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func createTestProfile(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, apps []string, isDefault bool) *models.Profile {
	t.Helper()

	profile := models.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Icon:      "bell.slash",
		IsDefault: isDefault,
	}
	profile.SetAppList(apps)
	profile.SetCategoryList(nil)
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return &profile
}
