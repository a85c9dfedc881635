package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
	"github.com/productstudio/studio/internal/core/styles"
	"github.com/productstudio/studio/internal/tui/jsoncolor"
)

// envelope fields live on the Session struct itself and are rendered in the
// header, not repeated in the body.
var envelopeKeys = map[string]bool{
	"id":            true,
	"status":        true,
	"error_message": true,
	"created_at":    true,
	"updated_at":    true,
}

// RenderResults produces the terminal results view for a session: a header
// with identity and status, then one section per payload field. Long string
// fields are treated as markdown and rendered through glamour; structured
// fields fall back to colorized JSON.
func RenderResults(f feature.Feature, s *session.Session, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("%s · session %d", f.Label, s.ID)))
	b.WriteString("\n")
	b.WriteString(renderStatusLine(s))
	b.WriteString("\n\n")

	if s.Status == session.StatusFailed && s.ErrorMessage != "" {
		b.WriteString(styles.ErrorPanelStyle.Render(styles.IconFailed + " " + s.ErrorMessage))
		b.WriteString("\n")
		return b.String()
	}

	var payload map[string]any
	if err := json.Unmarshal(s.Payload, &payload); err != nil || len(payload) == 0 {
		return b.String()
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		if envelopeKeys[k] || payload[k] == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(styles.TextPrimaryStyle.Render(humanizeKey(k)))
		b.WriteString("\n")
		b.WriteString(renderSection(payload[k], width))
		b.WriteString("\n")
	}

	return b.String()
}

func renderStatusLine(s *session.Session) string {
	line := "status: " + string(s.Status)
	switch {
	case s.Status == session.StatusCompleted:
		return styles.TextSuccessStyle.Render(styles.IconStepDone + " " + line)
	case s.Status == session.StatusFailed:
		return styles.TextErrorStyle.Render(styles.IconFailed + " " + line)
	default:
		return styles.TextWarningStyle.Render(styles.IconStepCurrent + " " + line)
	}
}

func renderSection(v any, width int) string {
	if s, ok := v.(string); ok && looksLikeMarkdown(s) {
		if out, err := renderMarkdown(s, width); err == nil {
			return out
		}
	}

	switch v := v.(type) {
	case string:
		return styles.TextForegroundStyle.Render(v) + "\n"
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v\n", v)
		}
		return jsoncolor.Colorize(raw) + "\n"
	}
}

// looksLikeMarkdown is a cheap structural sniff; plain one-line strings skip
// the glamour round trip.
func looksLikeMarkdown(s string) bool {
	if !strings.Contains(s, "\n") {
		return false
	}
	return strings.Contains(s, "#") || strings.Contains(s, "- ") || strings.Contains(s, "**")
}

func renderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyleConfig()),
		glamour.WithWordWrap(max(width-2, 20)),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func humanizeKey(k string) string {
	return strings.ToUpper(strings.ReplaceAll(k, "_", " "))
}
