package sheets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the store rejects the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the spreadsheet or sheet does not exist.
	ErrNotFound = errors.New("sheet not found")

	// ErrRateLimited is returned when the store throttles the caller.
	ErrRateLimited = errors.New("rate limited")

	// ErrReadOnly is returned by backends that cannot accept writes.
	ErrReadOnly = errors.New("store is read-only")

	// ErrInvalidUpdate is returned when a cell update has a bad address.
	ErrInvalidUpdate = errors.New("bad_update_shape")

	// ErrTransport is the catch-all for network and server failures.
	ErrTransport = errors.New("transport error")
)

// Error is a store failure with the HTTP status that produced it, if any.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Err        error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("sheets error: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code so callers can compare against a
// template value.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// statusError maps an HTTP status and optional JSON body onto the sentinel
// errors. A nil result means the status was not an error.
func statusError(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}

	var errResp struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &errResp)
	msg := errResp.Message
	if msg == "" {
		if s, ok := errResp.Error.(string); ok {
			msg = s
		}
	}

	var (
		code string
		base error
	)
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		code, base = "UNAUTHORIZED", ErrUnauthorized
	case statusCode == http.StatusNotFound:
		code, base = "NOT_FOUND", ErrNotFound
	case statusCode == http.StatusTooManyRequests:
		code, base = "RATE_LIMITED", ErrRateLimited
	case statusCode == http.StatusBadRequest:
		code, base = "BAD_REQUEST", ErrInvalidUpdate
	default:
		code, base = "SERVER_ERROR", ErrTransport
	}

	full := fmt.Sprintf("%s: %d", base, statusCode)
	if desc := http.StatusText(statusCode); desc != "" {
		full = fmt.Sprintf("%s: %d (%s)", base, statusCode, desc)
	}
	if msg != "" {
		full = fmt.Sprintf("%s: %s", full, msg)
	}
	return &Error{Code: code, Message: full, StatusCode: statusCode, Err: base}
}
