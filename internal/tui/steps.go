// Package tui holds the interactive surfaces of the studio CLI: the
// processing view shown while a session runs, the parameter form, and the
// results renderer.
package tui

import (
	"strings"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
	"github.com/productstudio/studio/internal/core/styles"
)

// StepState is the display state of one entry in the processing step list.
type StepState int

const (
	StepDone StepState = iota
	StepCurrent
	StepPending
)

// StepStates maps each status in the forward path to its display state given
// the session's current status. A terminal current status marks every step
// done; an unknown current status marks the initial step current so the view
// degrades gracefully when the backend reports a sub-state the client
// predates.
func StepStates(order session.Order, current session.Status) []StepState {
	steps := order.Steps()
	rank, known := order.Rank(current)
	if !known {
		rank = 0
	}

	states := make([]StepState, len(steps))
	for i, st := range steps {
		sr, _ := order.Rank(st)
		switch {
		case current.Terminal() && current != session.StatusFailed:
			states[i] = StepDone
		case sr < rank:
			states[i] = StepDone
		case sr == rank:
			states[i] = StepCurrent
		default:
			states[i] = StepPending
		}
	}
	return states
}

// renderSteps renders the step list with icons and theme styles. The spinner
// frame is placed on the current step while the session is still running.
func renderSteps(f feature.Feature, current session.Status, spin string) string {
	steps := f.Order.Steps()
	states := StepStates(f.Order, current)

	var b strings.Builder
	for i, st := range steps {
		label := f.StepLabel(st)
		switch states[i] {
		case StepDone:
			b.WriteString(styles.StepDoneStyle.Render(styles.IconStepDone + " " + label))
		case StepCurrent:
			icon := spin
			if icon == "" {
				icon = styles.IconStepCurrent
			}
			b.WriteString(styles.StepCurrentStyle.Render(icon + " " + label))
		case StepPending:
			b.WriteString(styles.StepPendingStyle.Render(styles.IconStepPending + " " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
