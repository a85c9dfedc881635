package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv1 "github.com/charmbracelet/lipgloss"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
	"github.com/productstudio/studio/internal/core/styles"
)

// Messages delivered to the processing model from the polling goroutine.
// The command layer bridges poller callbacks to Program.Send.
type (
	// ProgressMsg carries the latest status projection.
	ProgressMsg session.StatusProjection

	// CompletedMsg reports the session reached its success terminal.
	CompletedMsg struct{}

	// FailedMsg reports the session reached its failure terminal.
	FailedMsg struct{ Message string }
)

// ProcessingModel renders the live step list for a running session. It owns
// no network state; everything it shows arrives as messages.
type ProcessingModel struct {
	feature   feature.Feature
	sessionID int64
	spinner   spinner.Model

	status   session.Status
	progress string // backend progress message, when present
	failMsg  string
	done     bool
	failed   bool
	aborted  bool

	// stop tears down the poller; invoked exactly once from Update when the
	// user quits or a terminal message arrives.
	stop func()
}

// NewProcessing builds the model for one session. stop is called when the
// view exits for any reason so the poll loop never outlives the view.
func NewProcessing(f feature.Feature, sessionID int64, stop func()) ProcessingModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	// bubbles is still on lipgloss v1, so the spinner style is built there
	sp.Style = lipglossv1.NewStyle().Foreground(lipglossv1.Color(styles.PrimaryHex()))

	return ProcessingModel{
		feature:   f,
		sessionID: sessionID,
		spinner:   sp,
		status:    session.StatusPending,
		stop:      stop,
	}
}

// Aborted reports whether the user quit before the session finished.
func (m ProcessingModel) Aborted() bool { return m.aborted }

// Failed reports whether the session reached the failure terminal.
func (m ProcessingModel) Failed() bool { return m.failed }

// FailureMessage returns the backend's error message after a failure.
func (m ProcessingModel) FailureMessage() string { return m.failMsg }

func (m ProcessingModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProcessingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.aborted = true
			m.teardown()
			return m, tea.Quit
		}

	case ProgressMsg:
		m.status = msg.Status
		m.progress = msg.ProgressMessage
		return m, nil

	case CompletedMsg:
		m.status = session.StatusCompleted
		m.done = true
		m.teardown()
		return m, tea.Quit

	case FailedMsg:
		m.status = session.StatusFailed
		m.failed = true
		m.failMsg = msg.Message
		m.teardown()
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ProcessingModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%s · session %d", m.feature.Label, m.sessionID)
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	spin := ""
	if !m.done && !m.failed {
		spin = m.spinner.View()
	}
	b.WriteString(renderSteps(m.feature, m.status, spin))

	if m.progress != "" && !m.done && !m.failed {
		b.WriteString("\n")
		b.WriteString(styles.TextMutedStyle.Render(m.progress))
		b.WriteString("\n")
	}

	if m.failed {
		msg := m.failMsg
		if msg == "" {
			msg = "the session failed without a reason from the server"
		}
		b.WriteString("\n")
		b.WriteString(styles.ErrorPanelStyle.Render(styles.IconFailed + " " + msg))
		b.WriteString("\n")
	}

	if !m.done && !m.failed {
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("q to stop watching · the session keeps running on the server"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *ProcessingModel) teardown() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}
