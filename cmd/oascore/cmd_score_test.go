package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"oascore.io/oascore/internal/judge"
	"oascore.io/oascore/internal/pkg/logger"
	"oascore.io/oascore/internal/rules"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yaml")
	spec := `
openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        "200":
          description: a list of pets
`
	require.NoError(t, os.WriteFile(path, []byte(spec), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCommandJSON(t *testing.T) {
	out, err := runCLI(t, "score", writeSpec(t), "--format", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"overallScore"`)
	require.Contains(t, out, `"categoryScores"`)
}

func TestScoreCommandWritesOutputFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.md")
	_, err := runCLI(t, "score", writeSpec(t), "--format", "markdown", "--output", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Contains(t, string(data), "# API Quality Report")
}

func TestScoreCommandMinScoreGate(t *testing.T) {
	_, err := runCLI(t, "score", writeSpec(t), "--format", "json", "--min-score", "101")
	require.Error(t, err)

	var gateErr *QualityGateError
	require.True(t, errors.As(err, &gateErr))
}

func TestScoreCommandMissingFile(t *testing.T) {
	_, err := runCLI(t, "score", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var gateErr *QualityGateError
	require.False(t, errors.As(err, &gateErr), "load failures are not quality gate failures")
}

func TestScoreCommandInvalidFormat(t *testing.T) {
	_, err := runCLI(t, "score", writeSpec(t), "--format", "xml")
	require.Error(t, err)
}

func TestParseFailOn(t *testing.T) {
	sev, err := parseFailOn("")
	require.NoError(t, err)
	require.Empty(t, sev)

	sev, err = parseFailOn("error")
	require.NoError(t, err)
	require.Equal(t, rules.SeverityError, sev)

	sev, err = parseFailOn("warning")
	require.NoError(t, err)
	require.Equal(t, rules.SeverityWarning, sev)

	_, err = parseFailOn("info")
	require.Error(t, err)
}

func TestCheckGate(t *testing.T) {
	card := &judge.ScoreCard{
		OverallScore: 75,
		Categories: []judge.CategoryScore{{
			Result: rules.Result{Violations: []rules.Violation{
				{Severity: rules.SeverityWarning},
			}},
		}},
	}

	require.NoError(t, checkGate(card, 70, ""))
	require.Error(t, checkGate(card, 80, ""))
	require.NoError(t, checkGate(card, 0, rules.SeverityError))
	require.Error(t, checkGate(card, 0, rules.SeverityWarning))
}
