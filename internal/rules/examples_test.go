package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// One request body media type and one 201 response media type, neither with
// an example: 0 of 2 checked items, score 0.
func TestExamplesRuleDenominator(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths:
  /pets:
    post:
      requestBody:
        content:
          application/json:
            schema: {type: object, additionalProperties: {type: string}}
      responses:
        "201":
          description: created
          content:
            application/json:
              schema: {type: object, additionalProperties: {type: string}}
`)
	res := NewExamplesRule(10).Evaluate(doc)
	require.Equal(t, 0, res.Score)
	require.Equal(t, 10, res.MaxScore)
	require.Len(t, res.Violations, 2)
	requireViolation(t, res.Violations, SeverityWarning, "Request body content application/json has no example")
	requireViolation(t, res.Violations, SeverityWarning, "Response 201 content application/json has no example")
}

// Examples carried on the media type, the examples map or the schema all
// count; the score is proportional to the covered share.
func TestExamplesRulePartialCoverage(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths:
  /pets:
    post:
      parameters:
        - name: verbose
          in: query
          schema:
            type: boolean
            example: true
      requestBody:
        content:
          application/json:
            schema: {type: object, additionalProperties: {type: string}}
            example: {name: rex}
      responses:
        "201":
          description: created
          content:
            application/json:
              schema: {type: object, additionalProperties: {type: string}}
`)
	res := NewExamplesRule(10).Evaluate(doc)
	// 2 of 3 checked items are covered.
	require.Equal(t, 7, res.Score)
	requireNoViolation(t, res.Violations, "Request body content")
	requireViolation(t, res.Violations, SeverityWarning, "Response 201 content application/json has no example")
}

// Parameters without examples are informational only.
func TestExamplesRuleParameterSeverity(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths:
  /pets:
    get:
      parameters:
        - name: limit
          in: query
          schema: {type: integer}
      responses:
        "200": {description: ok}
`)
	res := NewExamplesRule(10).Evaluate(doc)
	v := requireViolation(t, res.Violations, SeverityInfo, `Parameter "limit" has no example`)
	require.Equal(t, "/pets", v.Path)
	require.Equal(t, 0, res.Score)
}

// Only POST/PUT/PATCH bodies and 2xx responses count: a GET with a
// content-free response and no parameters has nothing to exemplify and keeps
// the full weight.
func TestExamplesRuleNothingCheckable(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths:
  /status:
    get:
      responses:
        "204": {description: no content}
`)
	res := NewExamplesRule(10).Evaluate(doc)
	require.Equal(t, 10, res.Score)
	require.Empty(t, res.Violations)
}

// Error responses never enter the denominator.
func TestExamplesRuleIgnoresNonSuccessResponses(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {type: object, additionalProperties: {type: string}}
              example: []
        "500":
          description: boom
          content:
            application/json:
              schema: {type: object, additionalProperties: {type: string}}
`)
	res := NewExamplesRule(10).Evaluate(doc)
	require.Equal(t, 10, res.Score)
	requireNoViolation(t, res.Violations, "Response 500")
}
