package studio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productstudio/studio/internal/core/config"
	"github.com/productstudio/studio/internal/studio/api"
)

func newTestApp(t *testing.T, cfg *config.Config, handler http.HandlerFunc) (*App, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "", 5*time.Second, zerolog.Nop())
	return NewApp(cfg, client, nil, zerolog.Nop()), &hits
}

func TestApp_Feature_AppliesRuleMinDescription(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules = []config.Rule{
		{Pattern: "feasibility*", MinDescription: 150},
	}

	app, _ := newTestApp(t, &cfg, func(w http.ResponseWriter, r *http.Request) {})

	f, err := app.Feature("feasibility")
	require.NoError(t, err)
	assert.Equal(t, 150, f.MinDescriptionLength())

	// Features without a matching rule keep the registry default.
	other, err := app.Feature("competitive")
	require.NoError(t, err)
	assert.Equal(t, 100, other.MinDescriptionLength())
}

func TestApp_Feature_RuleMinDescriptionEnforcedOnCreate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules = []config.Rule{
		{Pattern: "feasibility*", MinDescription: 150},
	}

	app, hits := newTestApp(t, &cfg, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1, "status": "pending"}`))
	})

	f, err := app.Feature("feasibility")
	require.NoError(t, err)
	r := app.Repository(f)

	// 120 chars passes the registry default of 100 but not the configured 150.
	sess := r.Create(context.Background(), map[string]any{
		"feature_description": strings.Repeat("A", 120),
	})

	assert.Nil(t, sess)
	assert.NotEmpty(t, r.ErrorMessage())
	assert.Zero(t, hits.Load(), "a configured minimum must reject the request before it reaches the backend")

	// The same description is accepted once it meets the configured minimum.
	sess = r.Create(context.Background(), map[string]any{
		"feature_description": strings.Repeat("A", 150),
	})
	require.NotNil(t, sess)
	assert.Equal(t, int64(1), sess.ID)
}

func TestApp_Feature_UnknownName(t *testing.T) {
	cfg := config.DefaultConfig()
	app, _ := newTestApp(t, &cfg, func(w http.ResponseWriter, r *http.Request) {})

	_, err := app.Feature("nonsense")
	require.Error(t, err)
}
