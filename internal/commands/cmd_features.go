package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/pkg/iojson"
)

type FeaturesCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewFeaturesCmd creates a new features command
func NewFeaturesCmd(flags *Flags) *FeaturesCmd {
	return &FeaturesCmd{flags: flags}
}

// Register adds the features command to the application
func (cmd *FeaturesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "features",
		Usage:     "List the available analysis features",
		UsageText: "studio features [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FeaturesCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.jsonOutput {
		for _, f := range feature.All() {
			steps := make([]string, 0, 4)
			for _, st := range f.Order.Steps() {
				steps = append(steps, string(st))
			}
			entry := struct {
				Name     string   `json:"name"`
				Label    string   `json:"label"`
				BasePath string   `json:"base_path"`
				Steps    []string `json:"steps"`
			}{f.Name, f.Label, f.BasePath, steps}
			if err := iojson.Write(entry); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLABEL\tSTEPS")
	for _, f := range feature.All() {
		labels := make([]string, 0, 4)
		for _, st := range f.Order.Steps() {
			labels = append(labels, f.StepLabel(st))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, f.Label, strings.Join(labels, " → "))
	}
	return w.Flush()
}
