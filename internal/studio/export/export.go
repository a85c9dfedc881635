// Package export builds the client-side HTML report for a session and
// hands it to the platform browser for printing. The payload is opaque:
// sections are derived generically from the backend document rather than
// from per-feature knowledge.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
	"github.com/productstudio/studio/pkg/executil"
	"github.com/productstudio/studio/pkg/randid"
	"github.com/productstudio/studio/pkg/tmpl"
)

// envelope keys are rendered in the header, not as payload sections.
var envelopeKeys = map[string]bool{
	"id":            true,
	"status":        true,
	"error_message": true,
	"created_at":    true,
	"updated_at":    true,
}

// Section is one rendered payload block.
type Section struct {
	Key  string
	Body template.HTML
}

type reportData struct {
	Title        string
	SessionID    int64
	Status       session.Status
	Failed       bool
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Sections     []Section
}

// Render builds the self-contained HTML report for a session.
func Render(f feature.Feature, s *session.Session) (string, error) {
	if s == nil {
		return "", fmt.Errorf("no session to export")
	}

	sections, err := payloadSections(s.Payload)
	if err != nil {
		return "", fmt.Errorf("build sections: %w", err)
	}

	data := reportData{
		Title:        f.Label,
		SessionID:    s.ID,
		Status:       s.Status,
		Failed:       s.Status == session.StatusFailed,
		ErrorMessage: s.ErrorMessage,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Sections:     sections,
	}

	return tmpl.RenderHTML(reportTemplate, data)
}

// payloadSections walks the opaque payload document and renders each
// non-envelope top-level field as a section, sorted by key for stable
// output.
func payloadSections(payload json.RawMessage) ([]Section, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if envelopeKeys[k] || doc[k] == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sections := make([]Section, 0, len(keys))
	for _, k := range keys {
		sections = append(sections, Section{Key: k, Body: renderValue(doc[k])})
	}
	return sections, nil
}

// renderValue renders one payload value: objects become field tables,
// arrays become lists, scalars become paragraphs. Values are escaped; the
// markup around them is ours.
func renderValue(v any) template.HTML {
	var b strings.Builder
	writeValue(&b, v)
	return template.HTML(b.String())
}

func writeValue(b *strings.Builder, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("<table>")
		for _, k := range keys {
			b.WriteString("<tr><th>")
			b.WriteString(template.HTMLEscapeString(displayKey(k)))
			b.WriteString("</th><td>")
			writeValue(b, val[k])
			b.WriteString("</td></tr>")
		}
		b.WriteString("</table>")

	case []any:
		b.WriteString("<ul>")
		for _, item := range val {
			b.WriteString("<li>")
			writeValue(b, item)
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")

	case string:
		b.WriteString(`<p class="value">`)
		b.WriteString(template.HTMLEscapeString(val))
		b.WriteString("</p>")

	case float64:
		b.WriteString(`<p class="value">`)
		b.WriteString(trimFloat(val))
		b.WriteString("</p>")

	case bool:
		b.WriteString(`<p class="value">`)
		b.WriteString(fmt.Sprintf("%t", val))
		b.WriteString("</p>")

	case nil:
		b.WriteString(`<p class="value">—</p>`)

	default:
		b.WriteString(`<p class="value">`)
		b.WriteString(template.HTMLEscapeString(fmt.Sprint(val)))
		b.WriteString("</p>")
	}
}

func displayKey(k string) string {
	s := strings.ReplaceAll(k, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// trimFloat renders JSON numbers without a trailing ".000000" for integers.
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// Exporter writes reports to disk and opens them in the platform browser.
type Exporter struct {
	dir     string
	openCmd string
	exec    executil.Executor
	logger  zerolog.Logger
}

// NewExporter creates an exporter writing into dir. openCmd overrides the
// platform browser launcher when non-empty.
func NewExporter(dir, openCmd string, exec executil.Executor, logger zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, openCmd: openCmd, exec: exec, logger: logger}
}

// Write renders the report and writes it to a unique file, returning the
// path.
func (e *Exporter) Write(f feature.Feature, s *session.Session) (string, error) {
	html, err := Render(f, s)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	name := fmt.Sprintf("%s-session-%d-%s.html", f.Name, s.ID, randid.Generate(6))
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	e.logger.Info().Str("path", path).Msg("report exported")
	return path, nil
}

// Open launches the report in a browsing context, which triggers the print
// dialog via the document's load handler.
func (e *Exporter) Open(ctx context.Context, path string) error {
	cmd := e.openCmd
	if cmd == "" {
		cmd = defaultOpenCommand()
	}
	if _, err := e.exec.Run(ctx, cmd, path); err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	return nil
}

func defaultOpenCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}
