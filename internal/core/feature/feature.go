// Package feature registers the Product Studio analysis features and the
// parameters that specialize the generic session lifecycle for each one.
package feature

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/productstudio/studio/internal/core/session"
)

// DefaultMinDescription is the minimum description length enforced
// client-side before any create request is sent.
const DefaultMinDescription = 100

// FieldType represents the input type of a parameter field.
type FieldType string

// Supported parameter field types.
const (
	FieldTypeString FieldType = "string"
	FieldTypeText   FieldType = "text"
	FieldTypeSelect FieldType = "select"
)

// Field defines a single create-parameter input.
type Field struct {
	Name        string    // key in the create request body
	Label       string    // display label for forms
	Type        FieldType // string, text, select
	Required    bool
	Placeholder string
	Options     []string // options for select fields
}

// Feature parameterizes the session lifecycle for one analysis module:
// where it mounts, which statuses it walks, and what its form collects.
type Feature struct {
	Name       string // CLI name, e.g. "feasibility"
	Label      string // human label, e.g. "Feasibility Analyzer"
	BasePath   string // REST mount, e.g. "/api/feasibility"
	Order      session.Order
	StepLabels map[session.Status]string // processing view labels
	Fields     []Field

	// MinDescription overrides DefaultMinDescription when > 0.
	MinDescription int

	// HasComponents marks features exposing the editable component
	// sub-resource (PATCH {base}/components/{id}).
	HasComponents bool
}

// DescriptionField returns the feature's primary free-text field, which is
// the one subject to the minimum-length check.
func (f Feature) DescriptionField() (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Type == FieldTypeText {
			return fld, true
		}
	}
	return Field{}, false
}

// MinDescriptionLength returns the effective minimum description length.
func (f Feature) MinDescriptionLength() int {
	if f.MinDescription > 0 {
		return f.MinDescription
	}
	return DefaultMinDescription
}

// StepLabel returns the display label for a status, falling back to the
// status value itself for sub-states without a registered label.
func (f Feature) StepLabel(s session.Status) string {
	if l, ok := f.StepLabels[s]; ok {
		return l
	}
	return strings.ReplaceAll(string(s), "_", " ")
}

// ValidateParams checks create parameters client-side. Failures here must
// block submission before any network call is made.
func (f Feature) ValidateParams(params map[string]any) error {
	checks := make([]error, 0, len(f.Fields))

	for _, fld := range f.Fields {
		val := stringValue(params[fld.Name])

		if fld.Required {
			checks = append(checks, criterio.Run(fld.Name, val, requiredField))
		}
		if fld.Type == FieldTypeText && val != "" {
			checks = append(checks, criterio.Run(fld.Name, val, minLength(f.MinDescriptionLength())))
		}
		if fld.Type == FieldTypeSelect && val != "" {
			checks = append(checks, criterio.Run(fld.Name, val, oneOf(fld.Options)))
		}
	}

	return criterio.ValidateStruct(checks...)
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func requiredField(v string) error {
	if v == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

func minLength(n int) func(string) error {
	return func(v string) error {
		if len(v) < n {
			return fmt.Errorf("must be at least %d characters, got %d", n, len(v))
		}
		return nil
	}
}

func oneOf(options []string) func(string) error {
	return func(v string) error {
		for _, opt := range options {
			if v == opt {
				return nil
			}
		}
		return fmt.Errorf("must be one of: %s", strings.Join(options, ", "))
	}
}
