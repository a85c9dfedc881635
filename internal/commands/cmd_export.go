package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/productstudio/studio/internal/studio/export"
	"github.com/productstudio/studio/pkg/executil"
)

type ExportCmd struct {
	flags *Flags

	// flags
	outDir   string
	openFile bool
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export a finished session as a printable HTML report",
		UsageText: "studio export <feature> <id> [--out dir] [--open]",
		Description: `Renders a self-contained HTML report for a finished session. The report
opens the browser's print dialog on load, so "save as PDF" is one click away.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory (defaults to the configured export dir)",
				Destination: &cmd.outDir,
			},
			&cli.BoolFlag{
				Name:        "open",
				Usage:       "open the report in a browser after writing",
				Destination: &cmd.openFile,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
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
	if !s.IsTerminal() {
		return fmt.Errorf("session %d is still %s; wait for it to finish before exporting", id, s.Status)
	}

	dir := cmd.outDir
	if dir == "" {
		dir = cmd.flags.Config.Export.Dir
	}

	exporter := export.NewExporter(dir, cmd.flags.Config.Export.OpenCommand, &executil.RealExecutor{}, cmd.flags.App.Logger)
	path, err := exporter.Write(f, s)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintf(c.Root().Writer, "Report written to %s\n", abs)

	if cmd.openFile {
		if err := exporter.Open(ctx, path); err != nil {
			return fmt.Errorf("open report: %w", err)
		}
	}
	return nil
}
