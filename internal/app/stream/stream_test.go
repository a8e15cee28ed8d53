package stream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/streamify/internal/app/stream"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *stream.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := stream.NewClient("test-key", "test-secret", srv.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	if _, err := stream.NewClient("", "secret", "", zap.NewNop()); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := stream.NewClient("key", "", "", zap.NewNop()); err == nil {
		t.Error("expected error for missing api secret")
	}
}

func TestClient_UserToken(t *testing.T) {
	c, err := stream.NewClient("test-key", "test-secret", "", zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	tok, err := c.UserToken("user-123")
	if err != nil {
		t.Fatalf("UserToken failed: %v", err)
	}

	parsed, err := jwt.Parse(tok, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("token does not verify against the api secret: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] != "user-123" {
		t.Errorf("claims: got %v, want user_id user-123", parsed.Claims)
	}
}

func TestClient_UpsertUser(t *testing.T) {
	var got struct {
		path    string
		auth    string
		apiKey  string
		payload map[string]map[string]stream.User
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Stream-Auth-Type")
		got.apiKey = r.URL.Query().Get("api_key")
		_ = json.NewDecoder(r.Body).Decode(&got.payload)
		w.WriteHeader(http.StatusCreated)
	})

	err := c.UpsertUser(context.Background(), stream.User{ID: "u1", Name: "Maya"})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if got.path != "/users" {
		t.Errorf("path: got %q, want /users", got.path)
	}
	if got.auth != "jwt" {
		t.Errorf("auth type: got %q, want jwt", got.auth)
	}
	if got.apiKey != "test-key" {
		t.Errorf("api key: got %q, want test-key", got.apiKey)
	}
	if u := got.payload["users"]["u1"]; u.Name != "Maya" {
		t.Errorf("payload user: got %+v", u)
	}
}

func TestClient_CreateChannel_EchoedID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/channels/messaging/chan-1/query" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"channel": map[string]string{"id": "chan-1"},
		})
	})

	id, err := c.CreateChannel(context.Background(), "messaging", "chan-1", stream.ChannelInput{
		Name:      "Group",
		Members:   []string{"a", "b"},
		CreatedBy: "a",
	})
	if err != nil {
		t.Fatalf("CreateChannel failed: %v", err)
	}
	if id != "chan-1" {
		t.Errorf("channel id: got %q, want chan-1", id)
	}
}

func TestClient_CreateChannel_MissingEchoFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	id, err := c.CreateChannel(context.Background(), "messaging", "chan-2", stream.ChannelInput{})
	if err != nil {
		t.Fatalf("CreateChannel failed: %v", err)
	}
	if id != "chan-2" {
		t.Errorf("channel id: got %q, want chan-2", id)
	}
}

func TestClient_CreateChannel_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"duplicate"}`, http.StatusConflict)
	})

	_, err := c.CreateChannel(context.Background(), "messaging", "chan-3", stream.ChannelInput{})
	se, ok := err.(*stream.StatusError)
	if !ok {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusConflict {
		t.Errorf("code: got %d, want %d", se.Code, http.StatusConflict)
	}
}

func TestClient_DeleteChannel_NotFoundTolerated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	if err := c.DeleteChannel(context.Background(), "messaging", "gone"); err != nil {
		t.Errorf("expected 404 to be tolerated, got %v", err)
	}
}

func TestClient_DeleteChannel_OtherErrorsSurface(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	if err := c.DeleteChannel(context.Background(), "messaging", "chan"); err == nil {
		t.Error("expected 500 error to surface")
	}
}
