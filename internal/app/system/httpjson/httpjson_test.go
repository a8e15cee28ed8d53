package httpjson_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/streamify/internal/app/system/httpjson"
)

func TestRespond(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Respond(rec, 201, map[string]string{"ok": "yes"})

	if rec.Code != 201 {
		t.Errorf("status: got %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"ok":"yes"`) {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestError_MessageShape(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Error(rec, 404, "User not found")

	if rec.Code != 404 {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message":"User not found"`) {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"x"}`, false},
		{"unknown field", `{"name":"x","bogus":1}`, true},
		{"malformed", `{"name":`, true},
		{"two documents", `{"name":"x"}{"name":"y"}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			var p payload
			err := httpjson.Decode(rec, req, &p)
			if (err != nil) != tc.wantErr {
				t.Errorf("Decode error: got %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
