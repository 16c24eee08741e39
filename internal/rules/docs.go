package rules

import (
	"fmt"
	"strings"

	"oascore.io/oascore/internal/oas"
)

// minMeaningfulDescription is the trimmed length below which a description is
// treated as absent.
const minMeaningfulDescription = 5

// DocsRule checks that the API info, paths, operations, parameters, bodies,
// responses and component schemas all carry meaningful descriptions.
type DocsRule struct {
	weight int
}

// NewDocsRule constructs the rule with the given weight.
func NewDocsRule(weight int) *DocsRule {
	return &DocsRule{weight: weight}
}

func (r *DocsRule) Name() string  { return "description_docs" }
func (r *DocsRule) Title() string { return "Description & Documentation" }
func (r *DocsRule) Weight() int   { return r.weight }

func meaningful(s string) bool {
	return len(strings.TrimSpace(s)) >= minMeaningfulDescription
}

func (r *DocsRule) Evaluate(doc *oas.Document) Result {
	var violations []Violation
	items := 0

	add := func(path, method string, loc Location, sev Severity, msg, suggestion string) {
		violations = append(violations, Violation{
			Path:       path,
			Operation:  method,
			Location:   loc.String(),
			Message:    msg,
			Severity:   sev,
			Suggestion: suggestion,
		})
	}

	items++
	if doc.Info == nil || !meaningful(doc.Info.Description) {
		add("", "", Loc("info", "description"), SeverityError,
			"API info has no meaningful description",
			"Describe the API's purpose and audience in info.description")
	}

	for _, path := range oas.SortedPaths(doc) {
		item := doc.Paths[path]
		if item == nil {
			continue
		}
		base := Loc(path)

		items++
		if !meaningful(item.Description) {
			add(path, "", base.With("description"), SeverityWarning,
				"Path has no description",
				"Summarize what the resource at this path represents")
		}

		for _, mo := range item.Operations() {
			opLoc := base.With(mo.Method)

			items++
			if !meaningful(mo.Op.Description) && !meaningful(mo.Op.Summary) {
				add(path, mo.Method, opLoc, SeverityWarning,
					"Operation has neither a description nor a summary",
					"Add a summary or description explaining what the operation does")
			}

			params := append([]*oas.ParameterRef{}, item.Parameters...)
			params = append(params, mo.Op.Parameters...)
			for i, pref := range params {
				pLoc := opLoc.WithKey("parameters", fmt.Sprintf("%d", i))
				items++
				p, ok := oas.DerefParameter(doc, pref)
				if !ok {
					add(path, mo.Method, pLoc, SeverityError,
						fmt.Sprintf("Unresolved parameter reference: %s", pref.Ref),
						"Point the $ref at an existing parameter under #/components/parameters")
					continue
				}
				if p == nil {
					continue
				}
				if !meaningful(p.Description) {
					add(path, mo.Method, pLoc, SeverityWarning,
						fmt.Sprintf("Parameter %q has no description", p.Name),
						"Describe the parameter's meaning and accepted values")
				}
			}

			if mo.Op.RequestBody != nil {
				rbLoc := opLoc.With("requestBody")
				items++
				rb, ok := oas.DerefRequestBody(doc, mo.Op.RequestBody)
				if !ok {
					add(path, mo.Method, rbLoc, SeverityError,
						fmt.Sprintf("Unresolved request body reference: %s", mo.Op.RequestBody.Ref),
						"Point the $ref at an existing request body under #/components/requestBodies")
				} else if rb != nil && !meaningful(rb.Description) {
					add(path, mo.Method, rbLoc, SeverityWarning,
						"Request body has no description",
						"Describe the expected payload")
				}
			}

			for _, code := range oas.SortedKeys(mo.Op.Responses) {
				rLoc := opLoc.WithKey("responses", code)
				items++
				resp, ok := oas.DerefResponse(doc, mo.Op.Responses[code])
				if !ok {
					add(path, mo.Method, rLoc, SeverityError,
						fmt.Sprintf("Unresolved response reference: %s", mo.Op.Responses[code].Ref),
						"Point the $ref at an existing response under #/components/responses")
					continue
				}
				if resp == nil {
					continue
				}
				if !meaningful(resp.Description) {
					add(path, mo.Method, rLoc, SeverityError,
						fmt.Sprintf("Response %s has no description", code),
						"Describe when this response is returned")
				}
			}
		}
	}

	if doc.Components != nil {
		for _, name := range oas.SortedKeys(doc.Components.Schemas) {
			sLoc := Loc("components", "schemas", name)
			items++
			ref := doc.Components.Schemas[name]
			s, ok := oas.DerefSchema(doc, ref)
			if !ok || s == nil {
				continue
			}
			if !meaningful(s.Description) {
				add("", "", sLoc, SeverityWarning,
					fmt.Sprintf("Schema %q has no description", name),
					"Describe what the schema represents")
			}
			for _, prop := range oas.SortedKeys(s.Properties) {
				items++
				ps, okP := oas.DerefSchema(doc, s.Properties[prop])
				if !okP || ps == nil {
					continue
				}
				if !meaningful(ps.Description) {
					add("", "", sLoc.WithKey("properties", prop), SeverityInfo,
						fmt.Sprintf("Property %q has no description", prop),
						"Describe the property's meaning")
				}
			}
		}
	}

	score := CalculateScore(violations, items, r.weight)
	return Result{Score: score, MaxScore: r.weight, Violations: violations}
}
