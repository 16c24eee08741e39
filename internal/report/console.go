package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperrors "oascore.io/oascore/internal/pkg/errors"

	"oascore.io/oascore/internal/judge"
	"oascore.io/oascore/internal/rules"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	gradeGood = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	gradeMid = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	gradeBad = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true)

	sevErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	sevWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	sevInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func gradeStyle(g judge.Grade) lipgloss.Style {
	switch g {
	case judge.GradeS, judge.GradeA:
		return gradeGood
	case judge.GradeB, judge.GradeC:
		return gradeMid
	default:
		return gradeBad
	}
}

func severityStyle(s rules.Severity) lipgloss.Style {
	switch s {
	case rules.SeverityError:
		return sevErrorStyle
	case rules.SeverityWarning:
		return sevWarnStyle
	default:
		return sevInfoStyle
	}
}

// WriteConsole emits a styled terminal report: overall grade, category bars
// and the non-informational findings.
func WriteConsole(w io.Writer, card *judge.ScoreCard) error {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("API Quality Report"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("  Overall: %s  %d / 100\n\n",
		gradeStyle(card.Grade).Render(string(card.Grade)), card.OverallScore))

	for _, cat := range card.Categories {
		sb.WriteString(fmt.Sprintf("  %s %s %3d/%-3d\n",
			categoryStyle.Render(fmt.Sprintf("%-30s", cat.Title)),
			scoreBar(cat.Percentage), cat.Score, cat.MaxScore))
	}
	sb.WriteString("\n")

	counts := card.CountBySeverity()
	sb.WriteString(fmt.Sprintf("  %d errors, %d warnings, %d hints\n",
		counts[rules.SeverityError], counts[rules.SeverityWarning], counts[rules.SeverityInfo]))

	if len(card.Violations) > 0 {
		sb.WriteString("\n")
		for _, v := range card.Violations {
			sb.WriteString(fmt.Sprintf("  %s %s\n      %s\n",
				severityStyle(v.Severity).Render(fmt.Sprintf("[%s]", v.Severity)),
				v.Message,
				locationStyle.Render(v.Location)))
			if v.Suggestion != "" {
				sb.WriteString(fmt.Sprintf("      %s\n", suggestionStyle.Render(v.Suggestion)))
			}
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return apperrors.Wrap(err, apperrors.CodeReportWriteFailed, "write console report", 500)
	}
	return nil
}

// scoreBar renders a ten-cell progress bar for a 0-100 percentage.
func scoreBar(pct int) string {
	filled := pct / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 10-filled) + "]"
}
