package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/productstudio/studio/internal/core/feature"
)

// CollectParams prompts for the feature's create parameters with an
// interactive form. Inline validators give immediate feedback; the returned
// map is still subject to feature.ValidateParams before any request is made.
func CollectParams(f feature.Feature) (map[string]any, error) {
	values := make(map[string]*string, len(f.Fields))

	fields := make([]huh.Field, 0, len(f.Fields))
	for _, fld := range f.Fields {
		v := new(string)
		values[fld.Name] = v
		fields = append(fields, buildField(f, fld, v))
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("form cancelled: %w", err)
	}

	params := make(map[string]any, len(values))
	for name, v := range values {
		if strings.TrimSpace(*v) != "" {
			params[name] = *v
		}
	}
	return params, nil
}

func buildField(f feature.Feature, fld feature.Field, v *string) huh.Field {
	switch fld.Type {
	case feature.FieldTypeText:
		in := huh.NewText().
			Title(fld.Label).
			Value(v)
		if fld.Placeholder != "" {
			in = in.Placeholder(fld.Placeholder)
		}
		in = in.Validate(textValidator(f, fld))
		return in

	case feature.FieldTypeSelect:
		return huh.NewSelect[string]().
			Title(fld.Label).
			Options(huh.NewOptions(fld.Options...)...).
			Value(v)

	default:
		in := huh.NewInput().
			Title(fld.Label).
			Value(v)
		if fld.Placeholder != "" {
			in = in.Placeholder(fld.Placeholder)
		}
		if fld.Required {
			in = in.Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("%s is required", fld.Label)
				}
				return nil
			})
		}
		return in
	}
}

// textValidator enforces required and, for the feature's description field,
// the minimum length the server would reject anyway.
func textValidator(f feature.Feature, fld feature.Field) func(string) error {
	desc, hasDesc := f.DescriptionField()
	return func(s string) error {
		trimmed := strings.TrimSpace(s)
		if fld.Required && trimmed == "" {
			return fmt.Errorf("%s is required", fld.Label)
		}
		if hasDesc && fld.Name == desc.Name && len(trimmed) > 0 && len(trimmed) < f.MinDescriptionLength() {
			return fmt.Errorf("%s must be at least %d characters (%d so far)", fld.Label, f.MinDescriptionLength(), len(trimmed))
		}
		return nil
	}
}
