package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unlatch-ai/poke-daddy/internal/dto"
)

func TestStatusByEmail(t *testing.T) {
	var gotMethod, gotPath, gotEmail, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotEmail = r.URL.Query().Get("email")
		gotToken = r.Header.Get("X-Admin-Token")
		json.NewEncoder(w).Encode(dto.AdminStatusResponse{
			Valid:          true,
			UserID:         "u1",
			IsBlocking:     true,
			RestrictedApps: []string{"com.instagram.app"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sekrit")
	status, err := client.StatusByEmail(context.Background(), "demo@example.com")
	if err != nil {
		t.Fatalf("status call failed: %v", err)
	}

	if gotMethod != http.MethodGet || gotPath != "/admin/status-by-email" {
		t.Errorf("expected GET /admin/status-by-email, got %s %s", gotMethod, gotPath)
	}
	if gotEmail != "demo@example.com" {
		t.Errorf("expected email param, got %q", gotEmail)
	}
	if gotToken != "sekrit" {
		t.Errorf("expected admin token header, got %q", gotToken)
	}
	if !status.IsBlocking || len(status.RestrictedApps) != 1 {
		t.Errorf("unexpected decoded status: %+v", status)
	}
}

func TestUnblockAppSendsParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/unblock-app-by-email" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("email") != "demo@example.com" || q.Get("app_bundle_id") != "com.instagram.app" {
			t.Errorf("unexpected query %v", q)
		}
		json.NewEncoder(w).Encode(dto.AdminUnblockResponse{
			UserID:        "u1",
			ProfileID:     "p1",
			UnblockedApp:  "com.instagram.app",
			RemainingApps: []string{"com.twitter.twitter"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	resp, err := client.UnblockApp(context.Background(), "demo@example.com", "com.instagram.app")
	if err != nil {
		t.Fatalf("unblock call failed: %v", err)
	}
	if len(resp.RemainingApps) != 1 || resp.RemainingApps[0] != "com.twitter.twitter" {
		t.Errorf("unexpected remaining apps: %v", resp.RemainingApps)
	}
}

func TestStartBlockingOptionalParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(dto.AdminStartBlockingResponse{
			UserID: "u1", ProfileID: "p1", SessionID: "s1", IsBlocking: true,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	if _, err := client.StartBlocking(context.Background(), "demo@example.com", "", ""); err != nil {
		t.Fatalf("start call failed: %v", err)
	}
	if strings.Contains(gotQuery, "profile_id") || strings.Contains(gotQuery, "profile_name") {
		t.Errorf("expected no profile params, got %q", gotQuery)
	}

	if _, err := client.StartBlocking(context.Background(), "demo@example.com", "", "Work"); err != nil {
		t.Fatalf("start call failed: %v", err)
	}
	if !strings.Contains(gotQuery, "profile_name=Work") {
		t.Errorf("expected profile_name param, got %q", gotQuery)
	}
}

func TestErrorResponseSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(dto.ErrorResponse{Error: true, Message: "User not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.EndBlocking(context.Background(), "ghost@example.com")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "User not found") {
		t.Errorf("expected server message in error, got %v", err)
	}
}

func TestNoTokenHeaderWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Admin-Token"]; ok {
			t.Error("expected no admin token header when unconfigured")
		}
		json.NewEncoder(w).Encode(dto.AdminEndBlockingResponse{UserID: "u1", SessionsEnded: 1})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if _, err := client.EndBlocking(context.Background(), "demo@example.com"); err != nil {
		t.Fatalf("end call failed: %v", err)
	}
}
