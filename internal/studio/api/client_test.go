package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
)

func testFeature(t *testing.T) feature.Feature {
	t.Helper()
	f, err := feature.Lookup("competitive")
	require.NoError(t, err)
	return f
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "", 5*time.Second, zerolog.Nop())
}

func TestClient_CreateSession(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1, "status": "pending"}`))
	}))

	sess, err := c.CreateSession(context.Background(), testFeature(t), map[string]any{
		"product_description": "a product",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/competitive-analysis/sessions", gotPath)
	assert.Equal(t, "a product", gotBody["product_description"])
	assert.Equal(t, int64(1), sess.ID)
	assert.Equal(t, session.StatusPending, sess.Status)
}

func TestClient_ListSessions_Pagination(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("skip"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id": 3, "status": "completed"}, {"id": 2, "status": "failed"}]`))
	}))

	sessions, err := c.ListSessions(context.Background(), testFeature(t), 20, 20)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, int64(3), sessions[0].ID)
}

func TestClient_GetStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/competitive-analysis/sessions/7/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 7, "status": "analyzing", "progress_step": 2, "progress_message": "scanning competitors"}`))
	}))

	proj, err := c.GetStatus(context.Background(), testFeature(t), 7)
	require.NoError(t, err)
	assert.Equal(t, session.Status("analyzing"), proj.Status)
	assert.Equal(t, 2, proj.ProgressStep)
	assert.Equal(t, "scanning competitors", proj.ProgressMessage)
}

func TestClient_RetrySession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/competitive-analysis/sessions/5/retry", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 5, "status": "pending"}`))
	}))

	sess, err := c.RetrySession(context.Background(), testFeature(t), 5)
	require.NoError(t, err)
	assert.Equal(t, session.StatusPending, sess.Status)
}

func TestClient_DeleteSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, c.DeleteSession(context.Background(), testFeature(t), 5))
}

func TestClient_StructuredErrorDetail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "description too short"}`))
	}))

	_, err := c.CreateSession(context.Background(), testFeature(t), nil)
	require.Error(t, err)

	apiErr := Convert(err)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "description too short", apiErr.Detail)
	assert.Equal(t, "description too short", apiErr.Humanize())
	assert.False(t, apiErr.Transient())
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	c := NewClient(srv.URL, "", time.Second, zerolog.Nop())

	_, err := c.GetSession(context.Background(), testFeature(t), 1)
	require.Error(t, err)

	apiErr := Convert(err)
	assert.Zero(t, apiErr.StatusCode)
	assert.True(t, apiErr.Transient())
	assert.NotEmpty(t, apiErr.Humanize())
}

func TestClient_BearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "secret", time.Second, zerolog.Nop())
	_, err := c.ListSessions(context.Background(), testFeature(t), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClient_UpdateComponent(t *testing.T) {
	feas, err := feature.Lookup("feasibility")
	require.NoError(t, err)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/feasibility/components/12", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 12, "session_id": 4, "name": "backend", "effort_hours": 16}`))
	}))

	comp, err := c.UpdateComponent(context.Background(), feas, 12, map[string]any{"effort_hours": 16})
	require.NoError(t, err)
	assert.Equal(t, 16.0, comp.EffortHours)

	// Features without components refuse locally, no request issued.
	_, err = c.UpdateComponent(context.Background(), testFeature(t), 12, nil)
	assert.Error(t, err)
}
