package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"
)

type ShowCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a session's results",
		UsageText: "studio show <feature> <id> [--json]",
		Description: `Fetches a session and renders its results. A session that has not
finished yet is watched to completion first.

With --json the full backend document is printed as-is, without watching.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the raw session document",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	f, err := featureArg(cmd.flags, c)
	if err != nil {
		return err
	}
	id, err := sessionIDArg(c, 1)
	if err != nil {
		return err
	}

	r := cmd.flags.App.Repository(f)
	s := r.Get(ctx, id)
	if s == nil {
		return cli.Exit(r.ErrorMessage(), 1)
	}

	if cmd.jsonOutput {
		var doc json.RawMessage = s.Payload
		if len(doc) == 0 {
			raw, err := json.Marshal(s)
			if err != nil {
				return err
			}
			doc = raw
		}
		_, err := fmt.Fprintf(c.Root().Writer, "%s\n", doc)
		return err
	}

	if !s.IsTerminal() {
		model, err := watchSession(ctx, cmd.flags, f, r, id)
		if err != nil {
			return err
		}
		if model.Aborted() {
			return nil
		}
	}

	return showResults(ctx, c, f, r, id)
}
