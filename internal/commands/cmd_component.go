package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/productstudio/studio/pkg/iojson"
)

type ComponentCmd struct {
	flags *Flags

	// flags
	sets []string
}

// NewComponentCmd creates a new component command
func NewComponentCmd(flags *Flags) *ComponentCmd {
	return &ComponentCmd{flags: flags}
}

// Register adds the component command to the application
func (cmd *ComponentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "component",
		Usage:     "Update a component on a feature that exposes them",
		UsageText: "studio component <feature> <component-id> --set field=value [--set ...]",
		Description: `Patches fields on an editable component, such as the effort estimate on a
feasibility breakdown entry. Numeric values are sent as numbers.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "set",
				Aliases:     []string{"s"},
				Usage:       "field to update as field=value (repeatable)",
				Destination: &cmd.sets,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ComponentCmd) run(ctx context.Context, c *cli.Command) error {
	f, err := featureArg(cmd.flags, c)
	if err != nil {
		return err
	}
	componentID, err := sessionIDArg(c, 1)
	if err != nil {
		return err
	}
	if len(cmd.sets) == 0 {
		return fmt.Errorf("nothing to update; pass at least one --set field=value")
	}

	fields := make(map[string]any, len(cmd.sets))
	for _, pair := range cmd.sets {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q: expected field=value", pair)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			fields[key] = n
		} else {
			fields[key] = value
		}
	}

	r := cmd.flags.App.Repository(f)
	comp := r.UpdateComponent(ctx, componentID, fields)
	if comp == nil {
		return cli.Exit(r.ErrorMessage(), 1)
	}

	return iojson.Write(comp)
}
