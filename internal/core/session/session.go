// Package session defines the session domain types shared by every
// Product Studio analysis feature.
package session

import (
	"encoding/json"
	"time"
)

// Session represents one long-running backend analysis job and its result.
//
// Terminology:
//   - Session: one create → process → terminal cycle on the backend
//   - Payload: the feature-specific result document, opaque to this client
//   - Terminal status: completed or failed; no further automatic transitions
//
// The backend owns all mutations. The client only creates, retries, deletes,
// and (for features that allow it) patches narrow editable sub-resources.
type Session struct {
	ID           int64     `json:"id"`
	Status       Status    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Payload holds the full backend document as received. Feature result
	// fields are only meaningful once Status is the success terminal; the
	// client never interprets them beyond generic rendering and export.
	Payload json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known envelope fields and retains the complete
// raw document as the opaque payload.
func (s *Session) UnmarshalJSON(data []byte) error {
	type alias Session
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = Session(a)
	s.Payload = append(json.RawMessage(nil), data...)
	return nil
}

// IsTerminal returns true once the session reached completed or failed.
func (s *Session) IsTerminal() bool {
	return s.Status.Terminal()
}

// CanRetry returns true if the session may be re-triggered for processing.
// Only sessions at the failure terminal are retryable.
func (s *Session) CanRetry() bool {
	return s.Status == StatusFailed
}

// StatusProjection is the lightweight shape returned by the status endpoint.
// It is intentionally smaller than Session: polling repeats every few seconds
// and must not re-transfer result payloads on every tick.
type StatusProjection struct {
	ID              int64  `json:"id"`
	Status          Status `json:"status"`
	ProgressStep    int    `json:"progress_step,omitempty"`
	ProgressMessage string `json:"progress_message,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`
}

// Component is a narrow editable sub-resource exposed by some features
// (e.g. feasibility effort estimates). Fields other than the editable ones
// are read-only to the client.
type Component struct {
	ID          int64   `json:"id"`
	SessionID   int64   `json:"session_id"`
	Name        string  `json:"name"`
	EffortHours float64 `json:"effort_hours"`
	Notes       string  `json:"notes,omitempty"`
}
