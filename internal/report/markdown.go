package report

import (
	"fmt"
	"io"
	"strings"

	apperrors "oascore.io/oascore/internal/pkg/errors"

	"oascore.io/oascore/internal/judge"
	"oascore.io/oascore/internal/rules"
)

// WriteMarkdown emits the card as a Markdown report with a summary table and
// per-category violation sections.
func WriteMarkdown(w io.Writer, card *judge.ScoreCard) error {
	var sb strings.Builder

	sb.WriteString("# API Quality Report\n\n")
	sb.WriteString(fmt.Sprintf("**Overall Score:** %d / 100 (Grade %s)\n\n", card.OverallScore, card.Grade))

	sb.WriteString("## Category Scores\n\n")
	sb.WriteString("| Category | Score | Max | % |\n")
	sb.WriteString("|----------|------:|----:|--:|\n")
	for _, cat := range card.Categories {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d%% |\n",
			cat.Title, cat.Score, cat.MaxScore, cat.Percentage))
	}
	sb.WriteString("\n")

	counts := card.CountBySeverity()
	sb.WriteString(fmt.Sprintf("**Findings:** %d errors, %d warnings, %d hints\n\n",
		counts[rules.SeverityError], counts[rules.SeverityWarning], counts[rules.SeverityInfo]))

	for _, cat := range card.Categories {
		if len(cat.Result.Violations) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", cat.Title))
		for _, v := range cat.Result.Violations {
			sb.WriteString(fmt.Sprintf("- **%s** `%s` %s", v.Severity, v.Location, v.Message))
			if v.Suggestion != "" {
				sb.WriteString(fmt.Sprintf(" (*%s*)", v.Suggestion))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return apperrors.Wrap(err, apperrors.CodeReportWriteFailed, "write markdown report", 500)
	}
	return nil
}
