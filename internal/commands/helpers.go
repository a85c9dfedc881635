package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
	"github.com/productstudio/studio/internal/studio/poller"
	"github.com/productstudio/studio/internal/studio/repo"
	"github.com/productstudio/studio/internal/tui"
)

// featureArg resolves the first positional argument to a registered feature,
// with config rule overrides applied.
func featureArg(flags *Flags, c *cli.Command) (feature.Feature, error) {
	name := c.Args().First()
	if name == "" {
		return feature.Feature{}, fmt.Errorf("missing feature argument; one of: %s", strings.Join(feature.Names(), ", "))
	}
	return flags.App.Feature(name)
}

// sessionIDArg parses positional argument at index as a session id. A
// non-numeric id fails here, before any request is made.
func sessionIDArg(c *cli.Command, index int) (int64, error) {
	return parseSessionID(c.Args().Get(index))
}

func parseSessionID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing session id argument")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q: must be a positive integer", raw)
	}
	return id, nil
}

// watchSession runs the processing view for one session until it reaches a
// terminal status or the user quits. The poller is always stopped before
// returning, whichever way the view exits.
func watchSession(ctx context.Context, flags *Flags, f feature.Feature, r *repo.Repository, id int64) (tui.ProcessingModel, error) {
	var prog *tea.Program

	opts := poller.Options{
		Interval:        flags.Config.PollIntervalFor(f.Name),
		CompletionDelay: flags.Config.Poll.CompletionDelay.Std(),
	}
	cb := poller.Callbacks{
		OnProgress: func(p session.StatusProjection) {
			prog.Send(tui.ProgressMsg(p))
		},
		OnCompleted: func() {
			prog.Send(tui.CompletedMsg{})
		},
		OnFailed: func(msg string) {
			prog.Send(tui.FailedMsg{Message: msg})
		},
	}

	logger := flags.App.Logger.With().Str("feature", f.Name).Int64("session_id", id).Logger()
	pol := poller.New(r, id, opts, cb, logger)

	model := tui.NewProcessing(f, id, pol.Stop)
	prog = tea.NewProgram(model)

	pol.Start(ctx)

	final, err := prog.Run()
	pol.Stop()
	<-pol.Done()
	if err != nil {
		return tui.ProcessingModel{}, fmt.Errorf("processing view: %w", err)
	}

	return final.(tui.ProcessingModel), nil
}

// showResults fetches the latest session document and prints the results
// view. Returns a non-nil error when the fetch fails.
func showResults(ctx context.Context, c *cli.Command, f feature.Feature, r *repo.Repository, id int64) error {
	s := r.Get(ctx, id)
	if s == nil {
		return fmt.Errorf("fetch session %d: %s", id, r.ErrorMessage())
	}
	fmt.Fprint(c.Root().Writer, tui.RenderResults(f, s, 100))
	return nil
}
