package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"oascore.io/oascore/internal/judge"
	"oascore.io/oascore/internal/oas"
	"oascore.io/oascore/internal/report"
	"oascore.io/oascore/internal/rules"
)

func newScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <file-or-url>",
		Short: "Grade an OpenAPI document",
		Long: `Grade an OpenAPI 3 document and print a quality report.

The document may be a local file path or an http(s) URL, in YAML or JSON.

Exit codes:
  0  the document scored at or above --min-score and passed --fail-on
  1  the quality gate failed
  2  the document could not be loaded or the arguments are invalid

Examples:
  oascore score api.yaml
  oascore score https://example.com/openapi.json --format markdown
  oascore score api.yaml --min-score 80 --fail-on error`,
		Args:          cobra.ExactArgs(1),
		RunE:          runScore,
		SilenceErrors: true,
	}

	cmd.Flags().String("format", "console", "Output format: console | json | markdown | html")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Int("min-score", 0, "Fail when the overall score is below this threshold")
	cmd.Flags().String("fail-on", "", "Fail when violations of this severity exist: error | warning")
	cmd.Flags().Bool("strict", false, "Reject documents that fail OpenAPI 3 meta-validation")
	cmd.Flags().Bool("all", false, "Include info-severity findings in the top-level violation list")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	minScore, _ := cmd.Flags().GetInt("min-score")
	failOn, _ := cmd.Flags().GetString("fail-on")
	strict, _ := cmd.Flags().GetBool("strict")
	showAll, _ := cmd.Flags().GetBool("all")

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	gate, err := parseFailOn(failOn)
	if err != nil {
		return err
	}

	loader := oas.NewLoader()
	loader.Strict = strict
	doc, err := loader.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	card := judge.New(rules.DefaultWeights()).Evaluate(cmd.Context(), doc)
	if showAll {
		includeInfoFindings(card)
	}

	w := io.Writer(cmd.OutOrStdout())
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	if err := report.Render(w, card, format); err != nil {
		return err
	}

	return checkGate(card, minScore, gate)
}

// parseFailOn maps the --fail-on flag to a severity, "" meaning disabled.
func parseFailOn(s string) (rules.Severity, error) {
	switch s {
	case "":
		return "", nil
	case "error":
		return rules.SeverityError, nil
	case "warning":
		return rules.SeverityWarning, nil
	default:
		return "", fmt.Errorf("invalid --fail-on value %q, want error or warning", s)
	}
}

// includeInfoFindings rebuilds the top-level violation list with the
// info-severity entries the card normally filters out.
func includeInfoFindings(card *judge.ScoreCard) {
	card.Violations = card.Violations[:0]
	for _, cat := range card.Categories {
		card.Violations = append(card.Violations, cat.Result.Violations...)
	}
}

// checkGate enforces --min-score and --fail-on against the finished card.
func checkGate(card *judge.ScoreCard, minScore int, gate rules.Severity) error {
	if card.OverallScore < minScore {
		return &QualityGateError{Message: fmt.Sprintf(
			"quality gate failed: score %d is below the required %d", card.OverallScore, minScore)}
	}
	if gate == "" {
		return nil
	}
	counts := card.CountBySeverity()
	hit := counts[rules.SeverityError]
	if gate == rules.SeverityWarning {
		hit += counts[rules.SeverityWarning]
	}
	if hit > 0 {
		return &QualityGateError{Message: fmt.Sprintf(
			"quality gate failed: %d findings at or above severity %s", hit, gate)}
	}
	return nil
}
