package report

import (
	"html/template"
	"io"

	apperrors "oascore.io/oascore/internal/pkg/errors"

	"oascore.io/oascore/internal/judge"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>API Quality Report</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 60rem; color: #1f2430; }
h1 { border-bottom: 2px solid #e0e4ee; padding-bottom: .5rem; }
.grade { font-size: 2.5rem; font-weight: bold; }
.grade-S, .grade-A { color: #2e9e5b; }
.grade-B, .grade-C { color: #c98a1b; }
.grade-D, .grade-F { color: #cc3d3d; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #e0e4ee; padding: .4rem .7rem; text-align: left; }
th { background: #f4f6fb; }
.sev-error { color: #cc3d3d; font-weight: bold; }
.sev-warning { color: #c98a1b; font-weight: bold; }
.sev-info { color: #5a6478; }
code { background: #f4f6fb; padding: .1rem .3rem; border-radius: 3px; }
.suggestion { color: #5a6478; font-style: italic; }
</style>
</head>
<body>
<h1>API Quality Report</h1>
<p><span class="grade grade-{{.Grade}}">{{.Grade}}</span> &nbsp; {{.OverallScore}} / 100</p>

<h2>Category Scores</h2>
<table>
<tr><th>Category</th><th>Score</th><th>Max</th><th>%</th></tr>
{{range .Categories}}<tr><td>{{.Title}}</td><td>{{.Score}}</td><td>{{.MaxScore}}</td><td>{{.Percentage}}%</td></tr>
{{end}}</table>

{{range .Categories}}{{if .Result.Violations}}
<h2>{{.Title}}</h2>
<table>
<tr><th>Severity</th><th>Location</th><th>Message</th><th>Suggestion</th></tr>
{{range .Result.Violations}}<tr><td class="sev-{{.Severity}}">{{.Severity}}</td><td><code>{{.Location}}</code></td><td>{{.Message}}</td><td class="suggestion">{{.Suggestion}}</td></tr>
{{end}}</table>
{{end}}{{end}}
</body>
</html>
`))

// WriteHTML emits the card as a standalone HTML page.
func WriteHTML(w io.Writer, card *judge.ScoreCard) error {
	if err := htmlTemplate.Execute(w, card); err != nil {
		return apperrors.Wrap(err, apperrors.CodeReportWriteFailed, "render html report", 500)
	}
	return nil
}
