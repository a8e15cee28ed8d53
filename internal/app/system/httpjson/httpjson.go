// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps JSON request bodies. Group-create payloads are tiny;
// anything past this is abuse.
const maxBodyBytes = 1 << 20

// errorBody matches the single-sentence failure shape every endpoint
// returns: {"message": "..."}.
type errorBody struct {
	Message string `json:"message"`
}

// Respond writes v as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a single-sentence JSON error message with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	Respond(w, status, errorBody{Message: message})
}

// Decode reads the request body into dst, rejecting unknown fields and
// oversized payloads. Callers treat any returned error as a 400.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second document in the body is malformed input, not extra data to ignore.
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
