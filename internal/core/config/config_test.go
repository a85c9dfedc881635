package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "/tmp/studio-data")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Poll.Interval.Std())
	assert.Equal(t, 1200*time.Millisecond, cfg.Poll.CompletionDelay.Std())
	assert.Equal(t, filepath.Join("/tmp/studio-data", "exports"), cfg.Export.Dir)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
}

func TestLoad_PartialFile(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: https://studio.internal
  token: abc123
poll:
  interval: 3s
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://studio.internal", cfg.Server.BaseURL)
	assert.Equal(t, "abc123", cfg.Server.Token)
	assert.Equal(t, 3*time.Second, cfg.Poll.Interval.Std())
	// Unset values still get defaults.
	assert.Equal(t, 1200*time.Millisecond, cfg.Poll.CompletionDelay.Std())
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout.Std())
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
poll:
  interval: soon
`)

	_, err := Load(path, t.TempDir())
	assert.Error(t, err)
}

func TestLoad_RuleOverrides(t *testing.T) {
	path := writeConfig(t, `
rules:
  - pattern: "feasibility*"
    min_description_length: 150
    poll_interval: 2s
  - pattern: "test-*"
    poll_interval: 5s
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	r := cfg.RuleFor("feasibility")
	assert.Equal(t, 150, r.MinDescription)
	assert.Equal(t, 2*time.Second, r.PollInterval.Std())

	assert.Equal(t, 5*time.Second, cfg.PollIntervalFor("test-script"))
	// No matching rule falls back to the global interval.
	assert.Equal(t, 2500*time.Millisecond, cfg.PollIntervalFor("okr"))

	// Non-matching feature gets the zero rule.
	assert.Zero(t, cfg.RuleFor("journey").MinDescription)
}

func TestRuleFor_LaterRulesWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []Rule{
		{Pattern: "*", MinDescription: 120},
		{Pattern: "okr", MinDescription: 200},
	}

	assert.Equal(t, 200, cfg.RuleFor("okr").MinDescription)
	assert.Equal(t, 120, cfg.RuleFor("journey").MinDescription)
}
