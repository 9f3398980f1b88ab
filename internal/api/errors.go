package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the server, carrying the status code
// and the human-readable detail string from the response body.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// IsAuthError reports whether err is a 401 response. Auth failures are
// handled globally (token eviction and re-login) and are never rendered
// as a form-field error.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Detail extracts the server's validation message from err, or falls back
// to the given generic notice for transport failures and payloads with no
// detail field.
func Detail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// Field names a validation error can be mapped to by MatchField.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldPassword = "password"
)

// MatchField maps a server validation message to a form field by substring
// match against the lowercased text. Returns "" when no keyword matches,
// in which case the caller shows a general banner instead.
func MatchField(detail string) string {
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, FieldEmail):
		return FieldEmail
	case strings.Contains(lower, FieldUsername):
		return FieldUsername
	case strings.Contains(lower, FieldPassword):
		return FieldPassword
	}
	return ""
}

// serverDetail pulls the detail string out of an error response body.
// The body is not guaranteed to be JSON; anything unparsable is dropped.
func serverDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return ""
}
