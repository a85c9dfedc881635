package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/productstudio/studio/pkg/iojson"
)

type RetryCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	noWatch    bool
}

// NewRetryCmd creates a new retry command
func NewRetryCmd(flags *Flags) *RetryCmd {
	return &RetryCmd{flags: flags}
}

// Register adds the retry command to the application
func (cmd *RetryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "retry",
		Usage:     "Retry a failed session",
		UsageText: "studio retry <feature> <id> [--json] [--no-watch]",
		Description: `Asks the server to rerun a failed session with its original parameters.
The session keeps its id and restarts from the initial status. Only failed
sessions can be retried.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the restarted session as JSON and exit",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "no-watch",
				Usage:       "restart without watching progress",
				Destination: &cmd.noWatch,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RetryCmd) run(ctx context.Context, c *cli.Command) error {
	f, err := featureArg(cmd.flags, c)
	if err != nil {
		return err
	}
	id, err := sessionIDArg(c, 1)
	if err != nil {
		return err
	}

	r := cmd.flags.App.Repository(f)
	s := r.Retry(ctx, id)
	if s == nil {
		return cli.Exit(r.ErrorMessage(), 1)
	}

	if cmd.jsonOutput {
		return iojson.Write(s)
	}

	fmt.Fprintf(c.Root().Writer, "Retrying %s session %d\n", f.Name, s.ID)
	if cmd.noWatch {
		return nil
	}

	model, err := watchSession(ctx, cmd.flags, f, r, s.ID)
	if err != nil {
		return err
	}
	if model.Aborted() {
		return nil
	}
	if model.Failed() {
		return cli.Exit("", 1)
	}

	return showResults(ctx, c, f, r, s.ID)
}
