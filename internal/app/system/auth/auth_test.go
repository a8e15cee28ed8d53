package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/streamify/internal/app/system/auth"
	"go.uber.org/zap"
)

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "s", "", false, zap.NewNop())
	if err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a user")
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Unauthorized") {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestRequireSignedIn_WithUser(t *testing.T) {
	sm := newManager(t)
	var served bool
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
		u, ok := auth.CurrentUser(r)
		if !ok || u.Name != "Maya" {
			t.Errorf("current user: got %+v", u)
		}
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/users", nil), &auth.SessionUser{ID: "abc", Name: "Maya"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !served {
		t.Error("expected handler to run")
	}
}

type fetcherFunc func(ctx context.Context, userID string) *auth.SessionUser

func (f fetcherFunc) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	return f(ctx, userID)
}

func TestLoadSessionUser_RoundTrip(t *testing.T) {
	sm := newManager(t)
	sm.SetUserFetcher(fetcherFunc(func(ctx context.Context, userID string) *auth.SessionUser {
		return &auth.SessionUser{ID: userID, Name: "Fresh Name"}
	}))

	// Sign in to capture the session cookie.
	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/signin", nil)
	if err := sm.SignIn(signinRec, signinReq, "user-1"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a user in context")
	}
	if got.ID != "user-1" || got.Name != "Fresh Name" {
		t.Errorf("user: got %+v", got)
	}
}

func TestLoadSessionUser_VanishedUserSignedOut(t *testing.T) {
	sm := newManager(t)
	sm.SetUserFetcher(fetcherFunc(func(ctx context.Context, userID string) *auth.SessionUser {
		return nil
	}))

	signinRec := httptest.NewRecorder()
	if err := sm.SignIn(signinRec, httptest.NewRequest("POST", "/signin", nil), "gone"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user for a vanished account")
		}
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLoadSessionUser_GarbageCookie(t *testing.T) {
	sm := newManager(t)

	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected garbage cookie to mean signed out")
		}
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-real-session"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
}
