package feature

import (
	"fmt"
	"sort"

	"github.com/productstudio/studio/internal/core/session"
)

// builtins holds the registered features keyed by CLI name.
var builtins = map[string]Feature{}

func register(f Feature) {
	builtins[f.Name] = f
}

func init() {
	register(Feature{
		Name:     "competitive",
		Label:    "Competitive Analysis",
		BasePath: "/api/competitive-analysis",
		Order:    session.NewOrder("analyzing"),
		StepLabels: map[session.Status]string{
			session.StatusPending:   "Queued",
			"analyzing":             "Analyzing market landscape",
			session.StatusCompleted: "Analysis ready",
		},
		Fields: []Field{
			{Name: "product_description", Label: "Product description", Type: FieldTypeText, Required: true, Placeholder: "What does your product do, and for whom?"},
			{Name: "market", Label: "Target market", Type: FieldTypeString},
		},
	})

	register(Feature{
		Name:     "feasibility",
		Label:    "Feasibility Analyzer",
		BasePath: "/api/feasibility",
		Order:    session.NewOrder("decomposing", "estimating", "scheduling", "risk_analyzing"),
		StepLabels: map[session.Status]string{
			session.StatusPending:   "Queued",
			"decomposing":           "Decomposing into components",
			"estimating":            "Estimating effort",
			"scheduling":            "Building schedule",
			"risk_analyzing":        "Analyzing risks",
			session.StatusCompleted: "Feasibility report ready",
		},
		Fields: []Field{
			{Name: "feature_description", Label: "Feature description", Type: FieldTypeText, Required: true, Placeholder: "Describe the feature in enough detail to estimate it"},
			{Name: "team_size", Label: "Team size", Type: FieldTypeString},
		},
		HasComponents: true,
	})

	register(Feature{
		Name:     "okr",
		Label:    "OKR Generator",
		BasePath: "/api/okr-generator",
		Order:    session.NewOrder("generating"),
		StepLabels: map[session.Status]string{
			session.StatusPending:   "Queued",
			"generating":            "Generating objectives",
			session.StatusCompleted: "OKRs ready",
		},
		Fields: []Field{
			{Name: "company_context", Label: "Company context", Type: FieldTypeText, Required: true, Placeholder: "Mission, stage, and what the next quarter must achieve"},
			{Name: "timeframe", Label: "Timeframe", Type: FieldTypeSelect, Options: []string{"quarter", "half", "year"}},
		},
	})

	register(Feature{
		Name:     "journey",
		Label:    "Journey Mapper",
		BasePath: "/api/cx/journey-mapper",
		Order:    session.NewOrder("mapping"),
		StepLabels: map[session.Status]string{
			session.StatusPending:   "Queued",
			"mapping":               "Mapping customer journey",
			session.StatusCompleted: "Journey map ready",
		},
		Fields: []Field{
			{Name: "persona_description", Label: "Persona description", Type: FieldTypeText, Required: true, Placeholder: "Who is the customer, and what are they trying to do?"},
			{Name: "channel", Label: "Primary channel", Type: FieldTypeSelect, Options: []string{"web", "mobile", "in_store", "support"}},
		},
	})

	register(Feature{
		Name:     "test-script",
		Label:    "Test Script Writer",
		BasePath: "/api/test-script-writer",
		Order:    session.NewOrder("analyzing", "writing"),
		StepLabels: map[session.Status]string{
			session.StatusPending:   "Queued",
			"analyzing":             "Analyzing requirements",
			"writing":               "Writing test scripts",
			session.StatusCompleted: "Test scripts ready",
		},
		Fields: []Field{
			{Name: "requirements", Label: "Requirements", Type: FieldTypeText, Required: true, Placeholder: "Paste the requirements or acceptance criteria to cover"},
		},
	})
}

// Lookup returns the feature registered under name.
func Lookup(name string) (Feature, error) {
	f, ok := builtins[name]
	if !ok {
		return Feature{}, fmt.Errorf("unknown feature %q (available: %v)", name, Names())
	}
	return f, nil
}

// Names returns the sorted CLI names of all registered features.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered features sorted by name.
func All() []Feature {
	features := make([]Feature, 0, len(builtins))
	for _, name := range Names() {
		features = append(features, builtins[name])
	}
	return features
}
