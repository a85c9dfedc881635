package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type WatchCmd struct {
	flags *Flags
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{flags: flags}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Watch an existing session until it finishes",
		UsageText: "studio watch <feature> <id>",
		Description: `Attaches the progress view to a session that is already running.
Already-finished sessions render their results immediately.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	f, err := featureArg(cmd.flags, c)
	if err != nil {
		return err
	}
	id, err := sessionIDArg(c, 1)
	if err != nil {
		return err
	}

	r := cmd.flags.App.Repository(f)

	// Confirm the session exists before attaching; the poll loop treats
	// request failures as transient and would otherwise spin on a typo'd id.
	s := r.Get(ctx, id)
	if s == nil {
		return cli.Exit(r.ErrorMessage(), 1)
	}

	if !s.IsTerminal() {
		model, err := watchSession(ctx, cmd.flags, f, r, id)
		if err != nil {
			return err
		}
		if model.Aborted() {
			fmt.Fprintf(c.Root().Writer, "Session %d keeps running on the server\n", id)
			return nil
		}
	}

	return showResults(ctx, c, f, r, id)
}
