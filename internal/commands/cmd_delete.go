package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
)

type DeleteCmd struct {
	flags *Flags

	// flags
	yes bool
}

// NewDeleteCmd creates a new delete command
func NewDeleteCmd(flags *Flags) *DeleteCmd {
	return &DeleteCmd{flags: flags}
}

// Register adds the delete command to the application
func (cmd *DeleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a session",
		UsageText: "studio delete <feature> <id> [--yes]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DeleteCmd) run(ctx context.Context, c *cli.Command) error {
	f, err := featureArg(cmd.flags, c)
	if err != nil {
		return err
	}
	id, err := sessionIDArg(c, 1)
	if err != nil {
		return err
	}

	if !cmd.yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s session %d?", f.Name, id)).
			Description("The session and its results are removed from the server.").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	r := cmd.flags.App.Repository(f)
	if !r.Delete(ctx, id) {
		return cli.Exit(r.ErrorMessage(), 1)
	}

	fmt.Fprintf(c.Root().Writer, "Deleted %s session %d\n", f.Name, id)
	return nil
}
