// Package rules implements the best-practice rule evaluators that grade an
// OpenAPI document. Each rule is stateless, walks the document on its own and
// returns a Result; rules never call each other and never mutate the input.
package rules

// Severity classifies a violation. It is a specification-quality signal, not
// a program fault: rules degrade malformed input into violations and keep
// going.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ScoreWeight returns the penalty weight a violation of this severity
// contributes to the weighted violation percentage.
func (s Severity) ScoreWeight() float64 {
	switch s {
	case SeverityError:
		return 1.0
	case SeverityWarning:
		return 0.2
	default:
		return 0.0
	}
}

// Rank orders severities for sorting and filtering, highest first.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}
