package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/productstudio/studio/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	all        bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List sessions for a feature",
		UsageText: "studio ls <feature> [--all] [--json]",
		Description: `Displays sessions for a feature, newest first, one page at a time.

Use --all to follow pagination to the end, and --json for line-delimited
JSON output.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "fetch every page instead of the first",
				Destination: &cmd.all,
			},
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

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	f, err := featureArg(cmd.flags, c)
	if err != nil {
		return err
	}

	r := cmd.flags.App.Repository(f)

	sessions := r.List(ctx, true)
	if msg := r.ErrorMessage(); msg != "" {
		return cli.Exit(msg, 1)
	}
	for cmd.all && r.HasMore() {
		sessions = r.List(ctx, false)
		if msg := r.ErrorMessage(); msg != "" {
			return cli.Exit(msg, 1)
		}
	}

	if len(sessions) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No %s sessions found\n", f.Name)
		}
		return nil
	}

	if cmd.jsonOutput {
		for _, s := range sessions {
			if err := iojson.Write(s); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCREATED\tUPDATED\tERROR")
	for _, s := range sessions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			s.ID,
			s.Status,
			fmtTime(s.CreatedAt),
			fmtTime(s.UpdatedAt),
			truncate(s.ErrorMessage, 48),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if r.HasMore() {
		fmt.Fprintf(c.Root().Writer, "\nMore sessions available; rerun with --all\n")
	}
	return nil
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
