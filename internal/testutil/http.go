package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/streamify/internal/app/system/auth"
	"github.com/dalemusser/streamify/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, u models.User) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:          u.ID.Hex(),
		Name:        u.FullName,
		ProfilePic:  u.ProfilePic,
		IsOnboarded: u.IsOnboarded,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, u models.User) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, u)
}

// NewAuthenticatedJSONRequest creates an HTTP request with a user in
// context and a JSON body.
func NewAuthenticatedJSONRequest(method, target, body string, u models.User) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return WithUser(req, u)
}

// SomeID returns a fresh hex object id for use as a nonexistent target.
func SomeID() string {
	return primitive.NewObjectID().Hex()
}
