package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/productstudio/studio/internal/core/styles"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("server.base_url", c.Server.BaseURL, validBaseURL),
		criterio.Run("poll.interval", c.Poll.Interval, minInterval(500*time.Millisecond)),
		criterio.Run("tui.theme", c.TUI.Theme, validTheme),
		c.validateRules(),
	)
}

func (c *Config) validateRules() error {
	for i, r := range c.Rules {
		field := fmt.Sprintf("rules[%d]", i)

		if r.Pattern == "" {
			return criterio.NewFieldErrors(field+".pattern", fmt.Errorf("pattern is required"))
		}
		if !doublestar.ValidatePattern(r.Pattern) {
			return criterio.NewFieldErrors(field+".pattern", fmt.Errorf("invalid glob pattern %q", r.Pattern))
		}
		if r.MinDescription < 0 {
			return criterio.NewFieldErrors(field+".min_description_length", fmt.Errorf("must be >= 0"))
		}
		if r.PollInterval != 0 && r.PollInterval.Std() < 500*time.Millisecond {
			return criterio.NewFieldErrors(field+".poll_interval", fmt.Errorf("must be at least 500ms"))
		}
	}
	return nil
}

func validBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

func minInterval(min time.Duration) func(Duration) error {
	return func(d Duration) error {
		if d.Std() < min {
			return fmt.Errorf("must be at least %s", min)
		}
		return nil
	}
}

func validTheme(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
