package api

import (
	"errors"
	"fmt"
)

// Error is the single error type crossing the API client boundary. It
// carries the structured backend detail when a 4xx/5xx body included one,
// plus a transport-level fallback message.
type Error struct {
	StatusCode int    // zero for pure transport failures
	Detail     string // structured backend detail ({"detail": "..."}), if any
	Message    string // transport or generic HTTP message
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// Humanize returns the user-facing message, preferring the backend's
// structured detail over the generic transport message.
func (e *Error) Humanize() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	return "request failed"
}

// Transient reports whether the failure looks like a transport blip rather
// than a definitive backend answer. The poller skips these ticks.
func (e *Error) Transient() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// errorBody matches the backend's structured error shape.
type errorBody struct {
	Detail string `json:"detail"`
}

// Convert maps any error to *Error. Already-converted errors pass through;
// everything else becomes a transport error with a generic message.
func Convert(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Message: "could not reach the server, please try again"}
}
