package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/unlatch-ai/poke-daddy/internal/config"
	"github.com/unlatch-ai/poke-daddy/internal/database"
	"github.com/unlatch-ai/poke-daddy/internal/dto"
	"github.com/unlatch-ai/poke-daddy/internal/handlers"
	"github.com/unlatch-ai/poke-daddy/internal/routes"
	"github.com/unlatch-ai/poke-daddy/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T, adminToken string) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   30 * time.Minute,
		ExclusiveSessions: true,
		AdminToken:        adminToken,
	}

	authService := services.NewAuthService(db, cfg)
	profileService := services.NewProfileService(db)
	blockingService := services.NewBlockingService(db, cfg)
	adminService := services.NewAdminService(authService, profileService, blockingService)

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewAuthHandler(authService),
		handlers.NewProfileHandler(profileService),
		handlers.NewBlockingHandler(blockingService, profileService),
		handlers.NewAdminHandler(adminService),
		handlers.NewHealthHandler(),
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func register(t *testing.T, app *fiber.App, appleID, email, name string) string {
	t.Helper()

	resp := doJSON(t, app, "POST", "/auth/register", "", dto.RegisterRequest{
		AppleUserID: appleID,
		Email:       email,
		Name:        name,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("register returned %d", resp.StatusCode)
	}
	var token dto.TokenResponse
	decode(t, resp, &token)
	return token.AccessToken
}

// TestGoldenPath exercises the full lifecycle the iOS app and the tool
// gateway drive together: register, create a profile, start blocking,
// watch the restriction list, unblock one app from the admin surface,
// end the session, and confirm the restrictions fell away.
func TestGoldenPath(t *testing.T) {
	app := newTestApp(t, "")

	token := register(t, app, "apple-golden", "demo@example.com", "Demo")

	resp := doJSON(t, app, "POST", "/profiles", token, dto.ProfileCreateRequest{
		Name:           "P1",
		RestrictedApps: []string{"com.instagram.app", "com.twitter.twitter"},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create profile returned %d", resp.StatusCode)
	}
	var profile dto.ProfileResponse
	decode(t, resp, &profile)

	// Before any session the effective restrictions are empty.
	resp = doJSON(t, app, "GET", "/profiles/"+profile.ID+"/restricted-apps", token, nil)
	var restrictions dto.RestrictedAppsResponse
	decode(t, resp, &restrictions)
	if len(restrictions.RestrictedApps) != 0 {
		t.Errorf("expected no restrictions before start, got %v", restrictions.RestrictedApps)
	}

	resp = doJSON(t, app, "POST", "/blocking/toggle", token, dto.BlockingToggleRequest{
		ProfileID: profile.ID,
		Action:    "start",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("toggle start returned %d", resp.StatusCode)
	}
	var status dto.BlockingStatusResponse
	decode(t, resp, &status)
	if !status.IsBlocking || status.SessionID == nil {
		t.Fatalf("expected active session after toggle, got %+v", status)
	}

	resp = doJSON(t, app, "GET", "/profiles/"+profile.ID+"/restricted-apps", token, nil)
	decode(t, resp, &restrictions)
	if len(restrictions.RestrictedApps) != 2 {
		t.Errorf("expected both apps restricted, got %v", restrictions.RestrictedApps)
	}

	resp = doJSON(t, app, "POST",
		"/admin/unblock-app-by-email?email=demo@example.com&app_bundle_id=com.instagram.app", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin unblock returned %d", resp.StatusCode)
	}
	var unblocked dto.AdminUnblockResponse
	decode(t, resp, &unblocked)
	if len(unblocked.RemainingApps) != 1 || unblocked.RemainingApps[0] != "com.twitter.twitter" {
		t.Errorf("expected [com.twitter.twitter] remaining, got %v", unblocked.RemainingApps)
	}

	resp = doJSON(t, app, "GET", "/profiles/"+profile.ID+"/restricted-apps", token, nil)
	decode(t, resp, &restrictions)
	if len(restrictions.RestrictedApps) != 1 || restrictions.RestrictedApps[0] != "com.twitter.twitter" {
		t.Errorf("expected [com.twitter.twitter] restricted, got %v", restrictions.RestrictedApps)
	}

	resp = doJSON(t, app, "POST", "/admin/end-blocking-by-email?email=demo@example.com", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin end returned %d", resp.StatusCode)
	}
	var ended dto.AdminEndBlockingResponse
	decode(t, resp, &ended)
	if ended.SessionsEnded != 1 {
		t.Errorf("expected 1 ended session, got %d", ended.SessionsEnded)
	}

	resp = doJSON(t, app, "GET", "/profiles/"+profile.ID+"/restricted-apps", token, nil)
	decode(t, resp, &restrictions)
	if len(restrictions.RestrictedApps) != 0 {
		t.Errorf("expected no restrictions after end, got %v", restrictions.RestrictedApps)
	}
}

// TestToggleRejectsStop verifies the asymmetric surface: no user-facing
// request can end a session.
func TestToggleRejectsStop(t *testing.T) {
	app := newTestApp(t, "")

	token := register(t, app, "apple-stop", "stop@example.com", "")

	resp := doJSON(t, app, "POST", "/profiles", token, dto.ProfileCreateRequest{Name: "P1"})
	var profile dto.ProfileResponse
	decode(t, resp, &profile)

	for _, action := range []string{"stop", "end", ""} {
		resp := doJSON(t, app, "POST", "/blocking/toggle", token, dto.BlockingToggleRequest{
			ProfileID: profile.ID,
			Action:    action,
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("action %q: expected 400, got %d", action, resp.StatusCode)
		}
	}
}

func TestToggleUnknownProfile(t *testing.T) {
	app := newTestApp(t, "")
	token := register(t, app, "apple-missing", "missing-profile@example.com", "")

	resp := doJSON(t, app, "POST", "/blocking/toggle", token, dto.BlockingToggleRequest{
		ProfileID: "2a8f2cb2-07d5-4a7e-9b37-111111111111",
		Action:    "start",
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 for unknown profile, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireJWT(t *testing.T) {
	app := newTestApp(t, "")

	for _, path := range []string{"/users/me", "/profiles", "/blocking/status"} {
		resp := doJSON(t, app, "GET", path, "", nil)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, resp.StatusCode)
		}
	}
}

func TestDeleteDefaultProfileConflict(t *testing.T) {
	app := newTestApp(t, "")
	token := register(t, app, "apple-del", "del@example.com", "")

	// Registration created the default profile; find it.
	resp := doJSON(t, app, "GET", "/profiles", token, nil)
	var profiles []dto.ProfileResponse
	decode(t, resp, &profiles)
	if len(profiles) != 1 || !profiles[0].IsDefault {
		t.Fatalf("expected a single default profile, got %+v", profiles)
	}

	resp = doJSON(t, app, "DELETE", "/profiles/"+profiles[0].ID, token, nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("expected 409 for default profile delete, got %d", resp.StatusCode)
	}
}

func TestAdminStatusByEmail(t *testing.T) {
	app := newTestApp(t, "")
	register(t, app, "apple-status", "known@example.com", "")

	resp := doJSON(t, app, "GET", "/admin/status-by-email?email=unknown@example.com", "", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 for unknown email, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/admin/status-by-email?email=known@example.com", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for known email, got %d", resp.StatusCode)
	}
	var status dto.AdminStatusResponse
	decode(t, resp, &status)
	if !status.Valid || status.IsBlocking {
		t.Errorf("expected valid non-blocking status, got %+v", status)
	}

	resp = doJSON(t, app, "GET", "/admin/status-by-email", "", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for missing email, got %d", resp.StatusCode)
	}
}

func TestAdminGateToken(t *testing.T) {
	app := newTestApp(t, "sekrit")
	register(t, app, "apple-gate", "gate@example.com", "")

	req := httptest.NewRequest("GET", "/admin/status-by-email?email=gate@example.com", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 without admin token, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/admin/status-by-email?email=gate@example.com", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 with wrong admin token, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/admin/status-by-email?email=gate@example.com", nil)
	req.Header.Set("X-Admin-Token", "sekrit")
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 with correct admin token, got %d", resp.StatusCode)
	}
}

func TestAdminStartBlockingByEmail(t *testing.T) {
	app := newTestApp(t, "")
	register(t, app, "apple-start", "start@example.com", "")

	// Resolves to the Default profile created at registration.
	resp := doJSON(t, app, "POST", "/admin/start-blocking-by-email?email=start@example.com", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("start by email returned %d", resp.StatusCode)
	}
	var started dto.AdminStartBlockingResponse
	decode(t, resp, &started)
	if !started.IsBlocking || started.SessionID == "" {
		t.Errorf("expected active session, got %+v", started)
	}

	// Idempotent on repeat.
	resp = doJSON(t, app, "POST", "/admin/start-blocking-by-email?email=start@example.com", "", nil)
	var repeated dto.AdminStartBlockingResponse
	decode(t, resp, &repeated)
	if repeated.SessionID != started.SessionID {
		t.Errorf("expected same session on repeated start, got %s and %s",
			started.SessionID, repeated.SessionID)
	}

	resp = doJSON(t, app, "POST", "/admin/start-blocking-by-email?email=ghost@example.com", "", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 for unknown email, got %d", resp.StatusCode)
	}
}

func TestAdminEndBlockingWithoutSession(t *testing.T) {
	app := newTestApp(t, "")
	register(t, app, "apple-noend", "noend@example.com", "")

	resp := doJSON(t, app, "POST", "/admin/end-blocking-by-email?email=noend@example.com", "", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 with no active session, got %d", resp.StatusCode)
	}
}

func TestUsersMe(t *testing.T) {
	app := newTestApp(t, "")
	token := register(t, app, "apple-me", "me@example.com", "Me")

	resp := doJSON(t, app, "GET", "/users/me", token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("users/me returned %d", resp.StatusCode)
	}
	var user dto.UserResponse
	decode(t, resp, &user)
	if user.Email == nil || *user.Email != "me@example.com" {
		t.Errorf("expected email in response, got %v", user.Email)
	}
	if user.AppleUserID != "apple-me" {
		t.Errorf("expected apple user id echoed, got %q", user.AppleUserID)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, "")

	resp := doJSON(t, app, "GET", "/health", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("health returned %d", resp.StatusCode)
	}
	var health dto.HealthResponse
	decode(t, resp, &health)
	if health.Status != "ok" || health.DB != "ok" {
		t.Errorf("expected healthy status, got %+v", health)
	}
}
