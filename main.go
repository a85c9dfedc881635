package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/productstudio/studio/internal/commands"
	"github.com/productstudio/studio/internal/core/config"
	"github.com/productstudio/studio/internal/core/eventbus"
	"github.com/productstudio/studio/internal/core/styles"
	"github.com/productstudio/studio/internal/studio"
	"github.com/productstudio/studio/internal/studio/api"
	"github.com/productstudio/studio/pkg/logutils"
)

var serverOverride string

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		busCancel context.CancelFunc
		app       = &studio.App{}
	)

	flags := &commands.Flags{App: app}

	root := &cli.Command{
		Name:      "studio",
		Usage:     "Run and track Product Studio analysis sessions",
		UsageText: "studio [global options] command [command options]",
		Description: `Studio is a terminal client for the Product Studio analysis backend.

Each feature (competitive analysis, feasibility, OKRs, journey mapping,
test scripts) runs as a server-side session: studio creates it, watches
its progress live, and renders or exports the results when it finishes.

Run 'studio features' to see what's available.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("STUDIO_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/studio.log)",
				Sources:     cli.EnvVars("STUDIO_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("STUDIO_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("STUDIO_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "server",
				Usage:       "backend base URL (overrides config)",
				Sources:     cli.EnvVars("STUDIO_SERVER"),
				Destination: &serverOverride,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/studio.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "studio.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if serverOverride != "" {
				cfg.Server.BaseURL = serverOverride
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Token, cfg.Server.Timeout.Std(), logger)

			bus := eventbus.New(64)
			eventbus.RegisterDebugLogger(bus, logger)
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*app = *studio.NewApp(cfg, client, bus, logger)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	root = commands.NewRunCmd(flags).Register(root)
	root = commands.NewLsCmd(flags).Register(root)
	root = commands.NewShowCmd(flags).Register(root)
	root = commands.NewWatchCmd(flags).Register(root)
	root = commands.NewRetryCmd(flags).Register(root)
	root = commands.NewDeleteCmd(flags).Register(root)
	root = commands.NewExportCmd(flags).Register(root)
	root = commands.NewComponentCmd(flags).Register(root)
	root = commands.NewFeaturesCmd(flags).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
