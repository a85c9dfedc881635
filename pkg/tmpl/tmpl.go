// Package tmpl provides template rendering utilities for report documents.
package tmpl

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// humanize turns a snake_case field key into a display label.
// "market_summary" -> "Market summary"
func humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2, 2006 15:04 MST")
}

var funcs = template.FuncMap{
	"humanize": humanize,
	"fmtTime":  fmtTime,
	"join":     strings.Join,
}

// RenderHTML executes an HTML template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - humanize: Convert a snake_case key into a display label
//   - fmtTime: Format a time.Time for report headers
//   - join: Join a string slice with a separator
func RenderHTML(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
