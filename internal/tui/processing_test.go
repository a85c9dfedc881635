package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
)

func testFeature(t *testing.T) feature.Feature {
	t.Helper()
	f, err := feature.Lookup("feasibility")
	require.NoError(t, err)
	return f
}

func TestProcessingModel_ProgressAdvancesStatus(t *testing.T) {
	m := NewProcessing(testFeature(t), 42, nil)

	next, _ := m.Update(ProgressMsg{ID: 42, Status: "estimating"})
	got := next.(ProcessingModel)

	assert.Equal(t, session.Status("estimating"), got.status)
	assert.False(t, got.done)
	assert.False(t, got.failed)
}

func TestProcessingModel_CompletedStopsPoller(t *testing.T) {
	stops := 0
	m := NewProcessing(testFeature(t), 42, func() { stops++ })

	next, cmd := m.Update(CompletedMsg{})
	got := next.(ProcessingModel)

	assert.True(t, got.done)
	assert.Equal(t, 1, stops)
	require.NotNil(t, cmd, "completion must quit the program")
}

func TestProcessingModel_FailedShowsMessage(t *testing.T) {
	stops := 0
	m := NewProcessing(testFeature(t), 42, func() { stops++ })

	next, _ := m.Update(FailedMsg{Message: "analysis engine crashed"})
	got := next.(ProcessingModel)

	assert.True(t, got.Failed())
	assert.Equal(t, "analysis engine crashed", got.FailureMessage())
	assert.Equal(t, 1, stops)
	assert.Contains(t, got.View(), "analysis engine crashed")
}

func TestProcessingModel_QuitAbortsAndStopsOnce(t *testing.T) {
	stops := 0
	m := NewProcessing(testFeature(t), 42, func() { stops++ })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	got := next.(ProcessingModel)
	require.NotNil(t, cmd)
	assert.True(t, got.Aborted())
	assert.Equal(t, 1, stops)

	// a second quit keypress must not call stop again
	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	got = next.(ProcessingModel)
	assert.Equal(t, 1, stops)
}

func TestProcessingModel_ViewListsSteps(t *testing.T) {
	f := testFeature(t)
	m := NewProcessing(f, 7, nil)

	next, _ := m.Update(ProgressMsg{ID: 7, Status: "estimating", ProgressMessage: "estimating effort"})
	got := next.(ProcessingModel)

	view := got.View()
	assert.Contains(t, view, f.Label)
	assert.Contains(t, view, "session 7")
	assert.Contains(t, view, "estimating effort")
	for _, st := range f.Order.Steps() {
		assert.Contains(t, view, f.StepLabel(st))
	}
}
