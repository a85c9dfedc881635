package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/productstudio/studio/pkg/iojson"
)

type ConfigCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "studio config validate [--json]",
				Description: "Validates the configuration file, checking the server URL, poll intervals, and rule patterns.",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output validation result as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	// Config was already loaded and defaulted by the Before hook; validate
	// prints field-level problems instead of failing on first error.
	err := cmd.flags.Config.Validate()

	if cmd.jsonOutput {
		out := struct {
			Valid  bool     `json:"valid"`
			Path   string   `json:"path"`
			Errors []string `json:"errors,omitempty"`
		}{Valid: err == nil, Path: cmd.flags.ConfigPath}
		for _, msg := range fieldMessages(err) {
			out.Errors = append(out.Errors, msg)
		}
		if werr := iojson.Write(out); werr != nil {
			return werr
		}
		if err != nil {
			return cli.Exit("", 1)
		}
		return nil
	}

	if err == nil {
		fmt.Fprintf(c.Root().Writer, "Configuration is valid (%s)\n", cmd.flags.ConfigPath)
		return nil
	}

	for _, msg := range fieldMessages(err) {
		fmt.Fprintf(c.Root().Writer, "error: %s\n", msg)
	}
	return cli.Exit("", 1)
}

func fieldMessages(err error) []string {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Err))
		}
		return msgs
	}
	return []string{err.Error()}
}
