package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/tui"
	"github.com/productstudio/studio/pkg/iojson"
)

type RunCmd struct {
	flags *Flags
	fr    *iojson.FileReader[map[string]any]

	// flags
	params     []string
	jsonOutput bool
	noWatch    bool
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{
		flags: flags,
		fr:    &iojson.FileReader[map[string]any]{},
	}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Create a session and watch it to completion",
		UsageText: "studio run <feature> [--param key=value ...] [-f params.json] [--json] [--no-watch]",
		Description: `Creates a new analysis session for the given feature and streams its
progress until it reaches a terminal status.

Parameters come from --param flags, a JSON file or stdin via -f, or an
interactive form when neither is provided. Parameters are validated locally
before any request is made.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "param",
				Aliases:     []string{"p"},
				Usage:       "create parameter as key=value (repeatable)",
				Destination: &cmd.params,
			},
			cmd.fr.Flag(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the created session as JSON and exit",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "no-watch",
				Usage:       "create the session without watching its progress",
				Destination: &cmd.noWatch,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	f, err := featureArg(cmd.flags, c)
	if err != nil {
		return err
	}

	params, err := cmd.collectParams(c, f)
	if err != nil {
		return err
	}

	r := cmd.flags.App.Repository(f)
	s := r.Create(ctx, params)
	if s == nil {
		return cli.Exit(r.ErrorMessage(), 1)
	}

	if cmd.jsonOutput {
		return iojson.Write(s)
	}

	fmt.Fprintf(c.Root().Writer, "Created %s session %d\n", f.Name, s.ID)
	if cmd.noWatch {
		return nil
	}

	model, err := watchSession(ctx, cmd.flags, f, r, s.ID)
	if err != nil {
		return err
	}
	if model.Aborted() {
		fmt.Fprintf(c.Root().Writer, "Session %d keeps running; 'studio show %s %d' to check on it\n", s.ID, f.Name, s.ID)
		return nil
	}
	if model.Failed() {
		return cli.Exit("", 1)
	}

	return showResults(ctx, c, f, r, s.ID)
}

func (cmd *RunCmd) collectParams(c *cli.Command, f feature.Feature) (map[string]any, error) {
	if len(cmd.params) > 0 {
		return parseParamFlags(cmd.params)
	}

	if c.IsSet("file") || !term.IsTerminal(int(os.Stdin.Fd())) {
		params, err := cmd.fr.Read()
		if err != nil {
			return nil, fmt.Errorf("read params: %w", err)
		}
		return params, nil
	}

	return tui.CollectParams(f)
}

func parseParamFlags(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
