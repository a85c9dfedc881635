package tui

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/productstudio/studio/internal/core/session"
)

func TestRenderResults_CompletedSession(t *testing.T) {
	f := testFeature(t)
	s := &session.Session{
		ID:        12,
		Status:    session.StatusCompleted,
		CreatedAt: time.Now(),
		Payload: json.RawMessage(`{
			"id": 12,
			"status": "completed",
			"verdict": "feasible",
			"components": [{"name": "auth service", "effort_hours": 16}]
		}`),
	}

	out := RenderResults(f, s, 80)

	assert.Contains(t, out, f.Label)
	assert.Contains(t, out, "session 12")
	assert.Contains(t, out, "VERDICT")
	assert.Contains(t, out, "feasible")
	assert.Contains(t, out, "auth service")
	// envelope fields belong to the header, not the body sections
	assert.NotContains(t, out, "CREATED AT")
}

func TestRenderResults_FailedSessionShowsErrorOnly(t *testing.T) {
	f := testFeature(t)
	s := &session.Session{
		ID:           9,
		Status:       session.StatusFailed,
		ErrorMessage: "model backend unavailable",
		Payload:      json.RawMessage(`{"verdict": "partial"}`),
	}

	out := RenderResults(f, s, 80)

	assert.Contains(t, out, "model backend unavailable")
	assert.NotContains(t, out, "VERDICT")
}

func TestRenderResults_EmptyPayload(t *testing.T) {
	f := testFeature(t)
	s := &session.Session{ID: 3, Status: session.StatusCompleted}

	out := RenderResults(f, s, 80)
	assert.Contains(t, out, "session 3")
}
