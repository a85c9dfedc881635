package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_UnmarshalJSON(t *testing.T) {
	raw := `{
		"id": 42,
		"status": "completed",
		"created_at": "2024-03-01T10:00:00Z",
		"updated_at": "2024-03-01T10:05:00Z",
		"competitors": [{"name": "Acme"}],
		"market_summary": "crowded"
	}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, int64(42), s.ID)
	assert.Equal(t, StatusCompleted, s.Status)
	assert.True(t, s.IsTerminal())

	// Feature-specific fields survive in the opaque payload.
	var payload map[string]any
	require.NoError(t, json.Unmarshal(s.Payload, &payload))
	assert.Equal(t, "crowded", payload["market_summary"])
}

func TestSession_CanRetry(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"failed session is retryable", StatusFailed, true},
		{"completed session is not", StatusCompleted, false},
		{"pending session is not", StatusPending, false},
		{"in-progress session is not", "analyzing", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{Status: tt.status}
			assert.Equal(t, tt.want, s.CanRetry())
		})
	}
}

func TestStatusProjection_Decode(t *testing.T) {
	raw := `{"id": 7, "status": "failed", "error_message": "model quota exceeded"}`

	var p StatusProjection
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, StatusFailed, p.Status)
	assert.Equal(t, "model quota exceeded", p.ErrorMessage)
}
