package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"campus-complaints-api/internal/auth"
	"campus-complaints-api/internal/config"
	"campus-complaints-api/internal/handler"
	"campus-complaints-api/internal/meeting"
	"campus-complaints-api/internal/model"
	"campus-complaints-api/internal/notify"
	"campus-complaints-api/internal/store"
)

func setup(t *testing.T) (http.Handler, *store.Store, config.AuthConfig) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	secret := os.Getenv("JWT_SECRET")
	if dbURL == "" || secret == "" {
		t.Skip("DATABASE_URL or JWT_SECRET not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	authCfg := config.AuthConfig{
		JWTSecret:       secret,
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		LoginRatePerSec: 100,
		LoginBurst:      100,
	}
	st := store.New(pool)
	logger := zap.NewNop()
	h := handler.New(st, meeting.New(st, st), notify.New(st, logger), authCfg, logger)
	return h.Routes([]string{"*"}), st, authCfg
}

func createUser(t *testing.T, st *store.Store, role model.Role) *model.User {
	t.Helper()
	suffix := uuid.New().String()[:8]
	hash, err := auth.HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &model.User{
		ComputerNumber: "t-" + suffix,
		FirstName:      "Test",
		LastName:       "User",
		Email:          fmt.Sprintf("test-%s@test.com", suffix),
		PasswordHash:   hash,
		Role:           role,
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, u *model.User, cfg config.AuthConfig) string {
	t.Helper()
	tok, err := auth.MakeToken(u.ComputerNumber, u.Role, cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func createMeeting(t *testing.T, router http.Handler, token, participant string) int64 {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/meetings", token, map[string]any{
		"title":                       "Integration sync",
		"participant_computer_number": participant,
		"scheduled_at":                time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create meeting: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Data struct {
			MeetingID int64 `json:"meeting_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out.Data.MeetingID
}

// ----- auth -----

func TestLogin(t *testing.T) {
	router, st, _ := setup(t)
	u := createUser(t, st, model.RoleStudent)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"computer_number": u.ComputerNumber,
		"password":        "testpass123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"computer_number": u.ComputerNumber,
		"password":        "wrongpass",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	router, _, _ := setup(t)

	rec := doJSON(t, router, http.MethodGet, "/meetings", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

// ----- meetings -----

func TestMeetingLifecycle(t *testing.T) {
	router, st, cfg := setup(t)
	org := createUser(t, st, model.RoleStudent)
	part := createUser(t, st, model.RoleLecturer)
	orgTok := tokenFor(t, org, cfg)
	partTok := tokenFor(t, part, cfg)

	id := createMeeting(t, router, orgTok, part.ComputerNumber)

	// participant confirms
	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/meetings/%d", id), partTok,
		map[string]string{"status": "confirmed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", rec.Code, rec.Body.String())
	}

	// organizer may not set status
	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/meetings/%d", id), orgTok,
		map[string]string{"status": "cancelled"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("organizer status change: %d", rec.Code)
	}

	// organizer deletes
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/meetings/%d", id), orgTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/meetings/%d", id), orgTok, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("after delete: %d", rec.Code)
	}
}

func TestMeetingOrganizerIsRequester(t *testing.T) {
	router, st, cfg := setup(t)
	org := createUser(t, st, model.RoleStudent)
	part := createUser(t, st, model.RoleLecturer)
	spoofed := createUser(t, st, model.RoleLecturer)

	// a body naming someone else as organizer is ignored
	rec := doJSON(t, router, http.MethodPost, "/meetings", tokenFor(t, org, cfg), map[string]any{
		"title":                       "Spoof attempt",
		"organizer_computer_number":   spoofed.ComputerNumber,
		"participant_computer_number": part.ComputerNumber,
		"scheduled_at":                time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Data struct {
			MeetingID int64 `json:"meeting_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	m, err := st.GetMeeting(context.Background(), out.Data.MeetingID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if m.OrganizerID != org.ComputerNumber {
		t.Fatalf("organizer %q, want requester %q", m.OrganizerID, org.ComputerNumber)
	}
}

func TestMeetingCreateValidation(t *testing.T) {
	router, st, cfg := setup(t)
	u := createUser(t, st, model.RoleStudent)
	tok := tokenFor(t, u, cfg)

	rec := doJSON(t, router, http.MethodPost, "/meetings", tok, map[string]any{
		"title":                       "Too late",
		"participant_computer_number": u.ComputerNumber,
		"scheduled_at":                time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("past meeting: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/meetings", tok, map[string]any{
		"title":                       "Ghost",
		"participant_computer_number": "no-such-user",
		"scheduled_at":                time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown participant: %d %s", rec.Code, rec.Body.String())
	}
}

func TestMeetingAccessControl(t *testing.T) {
	router, st, cfg := setup(t)
	org := createUser(t, st, model.RoleStudent)
	part := createUser(t, st, model.RoleLecturer)
	other := createUser(t, st, model.RoleStudent)

	id := createMeeting(t, router, tokenFor(t, org, cfg), part.ComputerNumber)

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/meetings/%d", id), tokenFor(t, other, cfg), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("outsider get: %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/admin/meetings", tokenFor(t, other, cfg), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin list all: %d", rec.Code)
	}
	admin := createUser(t, st, model.RoleAdmin)
	rec = doJSON(t, router, http.MethodGet, "/admin/meetings", tokenFor(t, admin, cfg), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list all: %d %s", rec.Code, rec.Body.String())
	}
}

// ----- notifications -----

func TestNotificationFlow(t *testing.T) {
	router, st, cfg := setup(t)
	org := createUser(t, st, model.RoleStudent)
	part := createUser(t, st, model.RoleLecturer)
	partTok := tokenFor(t, part, cfg)

	createMeeting(t, router, tokenFor(t, org, cfg), part.ComputerNumber)

	rec := doJSON(t, router, http.MethodGet, "/notifications/unread-count", partTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unread count: %d", rec.Code)
	}
	var count struct {
		Data struct {
			UnreadCount int `json:"unread_count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &count); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if count.Data.UnreadCount < 1 {
		t.Fatalf("participant should have a meeting-request notification, got %d", count.Data.UnreadCount)
	}

	rec = doJSON(t, router, http.MethodPut, "/notifications/mark-read", partTok, map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing ids: %d", rec.Code)
	}
}

// ----- complaints -----

func TestComplaintFlow(t *testing.T) {
	router, st, cfg := setup(t)
	stud := createUser(t, st, model.RoleStudent)
	admin := createUser(t, st, model.RoleAdmin)
	studTok := tokenFor(t, stud, cfg)

	rec := doJSON(t, router, http.MethodPost, "/complaints", studTok, map[string]string{
		"title": "No description",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing description: %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/complaints", studTok, map[string]string{
		"title":       "Broken projector",
		"description": "Room 14 projector does not power on",
		"category":    "facilities",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create complaint: %d %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Data struct {
			ComplaintID int64 `json:"complaint_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// students cannot reach the admin update route
	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/admin/complaints/%d", out.Data.ComplaintID),
		studTok, map[string]string{"status": "resolved"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student admin update: %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/admin/complaints/%d", out.Data.ComplaintID),
		tokenFor(t, admin, cfg), map[string]string{"status": "resolved", "admin_response": "Fixed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update: %d %s", rec.Code, rec.Body.String())
	}
}
