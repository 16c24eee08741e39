package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"oascore.io/oascore/internal/judge"
	"oascore.io/oascore/internal/rules"
)

func sampleCard() *judge.ScoreCard {
	return &judge.ScoreCard{
		OverallScore: 73,
		Grade:        judge.GradeB,
		Categories: []judge.CategoryScore{
			{
				Name: "schema_types", Title: "Schema & Types",
				Score: 14, MaxScore: 20, Percentage: 70,
				Result: rules.Result{
					Score: 14, MaxScore: 20,
					Violations: []rules.Violation{{
						Location:   "components.schemas.Pet",
						Message:    "Schema has no description",
						Severity:   rules.SeverityInfo,
						Suggestion: "Describe what the schema represents",
					}},
				},
			},
			{
				Name: "security", Title: "Security",
				Score: 5, MaxScore: 10, Percentage: 50,
				Result: rules.Result{
					Score: 5, MaxScore: 10,
					Violations: []rules.Violation{{
						Path: "/pets", Operation: "post",
						Location:   "/pets.post",
						Message:    "Mutating operation is not secured, but security schemes are defined",
						Severity:   rules.SeverityWarning,
						Suggestion: "Apply one of the defined security schemes to the operation",
					}},
				},
			},
		},
		Violations: []rules.Violation{{
			Path: "/pets", Operation: "post",
			Location: "/pets.post",
			Message:  "Mutating operation is not secured, but security schemes are defined",
			Severity: rules.SeverityWarning,
		}},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"console", FormatConsole, false},
		{" console ", FormatConsole, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			require.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleCard()))

	var decoded judge.ScoreCard
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, 73, decoded.OverallScore)
	require.Equal(t, judge.GradeB, decoded.Grade)
	require.Len(t, decoded.Categories, 2)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleCard()))

	out := buf.String()
	require.Contains(t, out, "# API Quality Report")
	require.Contains(t, out, "73 / 100 (Grade B)")
	require.Contains(t, out, "| Schema & Types | 14 | 20 | 70% |")
	require.Contains(t, out, "Mutating operation is not secured")
}

func TestWriteHTMLEscapes(t *testing.T) {
	card := sampleCard()
	card.Categories[0].Result.Violations[0].Message = `Invalid type: "<script>"`

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, card))

	out := buf.String()
	require.Contains(t, out, "API Quality Report")
	require.NotContains(t, out, "<script>")
	require.Contains(t, out, "&lt;script&gt;")
}

func TestWriteConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsole(&buf, sampleCard()))

	out := buf.String()
	require.Contains(t, out, "API Quality Report")
	require.Contains(t, out, "73 / 100")
	require.Contains(t, out, "Schema & Types")
	require.Contains(t, out, "[warning]")
}

func TestRenderDispatch(t *testing.T) {
	for _, format := range []Format{FormatConsole, FormatJSON, FormatMarkdown, FormatHTML} {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, sampleCard(), format))
		require.NotZero(t, buf.Len(), "format %s produced no output", format)
	}
	require.Error(t, Render(&strings.Builder{}, sampleCard(), Format("bogus")))
}
