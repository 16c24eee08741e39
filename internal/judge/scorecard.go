// Package judge orchestrates the rule evaluators and assembles the final
// scorecard.
package judge

import "oascore.io/oascore/internal/rules"

// Grade is the letter grade derived from the overall score.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeFor maps an overall score to its letter grade.
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeS
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeB
	case score >= 60:
		return GradeC
	case score >= 50:
		return GradeD
	default:
		return GradeF
	}
}

// CategoryScore is one rule's contribution to the scorecard.
type CategoryScore struct {
	// Name is the machine-readable rule key.
	Name string `json:"name"`

	// Title is the human-readable category name.
	Title string `json:"title"`

	Score    int `json:"score"`
	MaxScore int `json:"maxScore"`

	// Percentage is the category's own 0-100 ratio, independent of its
	// weight share.
	Percentage int `json:"percentage"`

	// Result retains the full rule outcome, including info-severity
	// violations filtered from the top-level list.
	Result rules.Result `json:"result"`
}

// ScoreCard is the complete evaluation outcome for one document.
type ScoreCard struct {
	// OverallScore is the weighted total on the 0-100 scale.
	OverallScore int `json:"overallScore"`

	Grade Grade `json:"grade"`

	Categories []CategoryScore `json:"categoryScores"`

	// Violations is the flattened cross-category list, excluding
	// info-severity entries; drill into Categories for those.
	Violations []rules.Violation `json:"violations"`
}

// CountBySeverity tallies top-level and per-category violations by severity,
// counting each violation once.
func (c *ScoreCard) CountBySeverity() map[rules.Severity]int {
	counts := map[rules.Severity]int{}
	for _, cat := range c.Categories {
		for _, v := range cat.Result.Violations {
			counts[v.Severity]++
		}
	}
	return counts
}
