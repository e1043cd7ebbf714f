package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// maxBodyBytes bounds a decoded request body.
const maxBodyBytes = 1 << 20

// ScreenRequest represents the request body for screening a batch of symbols
type ScreenRequest struct {
	Symbols []string `json:"symbols"`
	Force   bool     `json:"force"`
}

// DecodeScreenRequest decodes a ScreenRequest from the request body.
// Unknown fields are rejected.
func DecodeScreenRequest(w http.ResponseWriter, r *http.Request) (ScreenRequest, error) {
	var req ScreenRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return ScreenRequest{}, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// ParseForce reads the optional "force" query parameter.
func ParseForce(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("force")
	if raw == "" {
		return false, nil
	}
	force, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("force must be true or false, got %q", raw)
	}
	return force, nil
}

// ParseLimit reads the optional "limit" query parameter. Zero means no
// limit was given.
func ParseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	return limit, nil
}
