package rules

import (
	"fmt"

	"oascore.io/oascore/internal/oas"
)

// Violation is one detected defect with a remediation suggestion.
type Violation struct {
	// Path is the affected URL template, empty for document-level issues.
	Path string `json:"path,omitempty"`

	// Operation is the affected HTTP method, if any.
	Operation string `json:"operation,omitempty"`

	// Location is the dotted pointer into the spec tree.
	Location string `json:"location"`

	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Result is the outcome of one rule evaluation.
type Result struct {
	// Score is the achieved score, always within [0, MaxScore].
	Score int `json:"score"`

	// MaxScore is the rule's configured weight.
	MaxScore int `json:"maxScore"`

	Violations []Violation `json:"violations"`
}

// Rule is a stateless evaluator over a parsed specification.
type Rule interface {
	// Name is the machine-readable rule key used in configuration.
	Name() string

	// Title is the human-readable category name.
	Title() string

	// Weight is the rule's share of the overall 100-point scale.
	Weight() int

	// Evaluate walks the document and returns a scored result. The document
	// is never mutated.
	Evaluate(doc *oas.Document) Result
}

// Weights is the immutable per-rule weight configuration, constructed once at
// startup and injected into each rule. The sum must equal 100 so the overall
// score is directly a percentage.
type Weights struct {
	SchemaTypes     int `mapstructure:"schema_types"`
	DescriptionDocs int `mapstructure:"description_docs"`
	PathsOperations int `mapstructure:"paths_operations"`
	ResponseCodes   int `mapstructure:"response_codes"`
	Examples        int `mapstructure:"examples"`
	Security        int `mapstructure:"security"`
	Miscellaneous   int `mapstructure:"miscellaneous"`
}

// DefaultWeights returns the canonical weight table.
func DefaultWeights() Weights {
	return Weights{
		SchemaTypes:     20,
		DescriptionDocs: 20,
		PathsOperations: 15,
		ResponseCodes:   15,
		Examples:        10,
		Security:        10,
		Miscellaneous:   10,
	}
}

// Total sums all rule weights.
func (w Weights) Total() int {
	return w.SchemaTypes + w.DescriptionDocs + w.PathsOperations +
		w.ResponseCodes + w.Examples + w.Security + w.Miscellaneous
}

// Validate rejects weight tables that would break the 0-100 scale.
func (w Weights) Validate() error {
	for _, entry := range []struct {
		name   string
		weight int
	}{
		{"schema_types", w.SchemaTypes},
		{"description_docs", w.DescriptionDocs},
		{"paths_operations", w.PathsOperations},
		{"response_codes", w.ResponseCodes},
		{"examples", w.Examples},
		{"security", w.Security},
		{"miscellaneous", w.Miscellaneous},
	} {
		if entry.weight <= 0 {
			return fmt.Errorf("scoring weight %s must be positive, got %d", entry.name, entry.weight)
		}
	}
	if total := w.Total(); total != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %d", total)
	}
	return nil
}

// All constructs the full rule set in its canonical evaluation order.
func All(w Weights) []Rule {
	return AllWithLimits(w, DefaultMaxSchemaDepth)
}

// AllWithLimits builds the rule set with a custom schema recursion bound.
func AllWithLimits(w Weights, maxSchemaDepth int) []Rule {
	return []Rule{
		NewSchemaRuleWithDepth(w.SchemaTypes, maxSchemaDepth),
		NewDocsRule(w.DescriptionDocs),
		NewPathsRule(w.PathsOperations),
		NewResponsesRule(w.ResponseCodes),
		NewExamplesRule(w.Examples),
		NewSecurityRule(w.Security),
		NewMiscRule(w.Miscellaneous),
	}
}
