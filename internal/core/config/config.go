// Package config handles configuration loading and validation for studio.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Poll    PollConfig   `yaml:"poll"`
	Export  ExportConfig `yaml:"export"`
	Rules   []Rule       `yaml:"rules"`
	TUI     TUIConfig    `yaml:"tui"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	BaseURL string   `yaml:"base_url"`
	Token   string   `yaml:"token"` // optional bearer token
	Timeout Duration `yaml:"timeout"`
}

// PollConfig holds the session polling cadence.
type PollConfig struct {
	// Interval between status polls. Fixed cadence, not adaptive.
	Interval Duration `yaml:"interval"`
	// CompletionDelay is the cosmetic pause between observing the success
	// terminal and handing off to the results view.
	CompletionDelay Duration `yaml:"completion_delay"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	Dir         string `yaml:"dir"`          // defaults to <data-dir>/exports
	OpenCommand string `yaml:"open_command"` // override the platform browser launcher
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// Rule applies per-feature overrides. Pattern is a doublestar glob matched
// against the feature name (e.g. "feasibility", "test-*").
type Rule struct {
	Pattern        string   `yaml:"pattern"`
	MinDescription int      `yaml:"min_description_length"`
	PollInterval   Duration `yaml:"poll_interval"`
}

// Duration wraps time.Duration with YAML string parsing ("2s", "2500ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration(30 * time.Second),
		},
		Poll: PollConfig{
			Interval:        Duration(2500 * time.Millisecond),
			CompletionDelay: Duration(1200 * time.Millisecond),
		},
		TUI: TUIConfig{
			Theme: "tokyo-night",
		},
	}
}

// Load reads configuration from configPath, applies defaults, and validates.
// A missing config file is not an error; defaults are used.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = def.Server.Timeout
	}
	if c.Poll.Interval == 0 {
		c.Poll.Interval = def.Poll.Interval
	}
	if c.Poll.CompletionDelay == 0 {
		c.Poll.CompletionDelay = def.Poll.CompletionDelay
	}
	if c.Export.Dir == "" && c.DataDir != "" {
		c.Export.Dir = filepath.Join(c.DataDir, "exports")
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = def.TUI.Theme
	}
}

// RuleFor returns the merged overrides for a feature name. Later rules win
// when multiple patterns match.
func (c *Config) RuleFor(featureName string) Rule {
	var merged Rule
	for _, r := range c.Rules {
		ok, err := doublestar.Match(r.Pattern, featureName)
		if err != nil || !ok {
			continue
		}
		if r.MinDescription > 0 {
			merged.MinDescription = r.MinDescription
		}
		if r.PollInterval > 0 {
			merged.PollInterval = r.PollInterval
		}
	}
	return merged
}

// PollIntervalFor returns the effective poll interval for a feature.
func (c *Config) PollIntervalFor(featureName string) time.Duration {
	if r := c.RuleFor(featureName); r.PollInterval > 0 {
		return r.PollInterval.Std()
	}
	return c.Poll.Interval.Std()
}
