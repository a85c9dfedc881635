// Package studio wires the shared runtime pieces of the CLI together: the
// API client, the event bus, and per-feature repositories.
package studio

import (
	"github.com/rs/zerolog"

	"github.com/productstudio/studio/internal/core/config"
	"github.com/productstudio/studio/internal/core/eventbus"
	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/studio/api"
	"github.com/productstudio/studio/internal/studio/repo"
)

// App holds the long-lived dependencies commands share. It is allocated
// empty at startup and populated in the CLI's Before hook so command
// constructors can hold a stable pointer.
type App struct {
	Config *config.Config
	Client *api.Client
	Bus    *eventbus.EventBus
	Logger zerolog.Logger
}

// NewApp assembles an App from its parts.
func NewApp(cfg *config.Config, client *api.Client, bus *eventbus.EventBus, logger zerolog.Logger) *App {
	return &App{Config: cfg, Client: client, Bus: bus, Logger: logger}
}

// Feature resolves a feature by name with config rule overrides applied.
// A matching rule's min_description_length replaces the registry default,
// so validation enforces the configured minimum before any request.
func (a *App) Feature(name string) (feature.Feature, error) {
	f, err := feature.Lookup(name)
	if err != nil {
		return f, err
	}
	if rule := a.Config.RuleFor(f.Name); rule.MinDescription > 0 {
		f.MinDescription = rule.MinDescription
	}
	return f, nil
}

// Repository builds the session repository for one feature. Repositories are
// cheap; commands create one per invocation.
func (a *App) Repository(f feature.Feature) *repo.Repository {
	logger := a.Logger.With().Str("feature", f.Name).Logger()
	return repo.New(a.Client, f, a.Bus, logger)
}
