package rules

import (
	"fmt"
	"math"

	"oascore.io/oascore/internal/oas"
)

// ExamplesRule checks that request bodies, success responses and parameters
// carry example values.
type ExamplesRule struct {
	weight int
}

// NewExamplesRule constructs the rule with the given weight.
func NewExamplesRule(weight int) *ExamplesRule {
	return &ExamplesRule{weight: weight}
}

func (r *ExamplesRule) Name() string  { return "examples" }
func (r *ExamplesRule) Title() string { return "Examples & Samples" }
func (r *ExamplesRule) Weight() int   { return r.weight }

var exampleBodyMethods = map[string]bool{"post": true, "put": true, "patch": true}

func (r *ExamplesRule) Evaluate(doc *oas.Document) Result {
	var violations []Violation
	checked, withExamples := 0, 0

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

	for _, path := range oas.SortedPaths(doc) {
		item := doc.Paths[path]
		if item == nil {
			continue
		}
		for _, mo := range item.Operations() {
			opLoc := Loc(path, mo.Method)

			if exampleBodyMethods[mo.Method] && mo.Op.RequestBody != nil {
				rb, ok := oas.DerefRequestBody(doc, mo.Op.RequestBody)
				if ok && rb != nil {
					for _, mt := range oas.SortedKeys(rb.Content) {
						checked++
						if mediaTypeHasExample(rb.Content[mt]) {
							withExamples++
						} else {
							add(path, mo.Method, opLoc.With("requestBody").WithKey("content", mt), SeverityWarning,
								fmt.Sprintf("Request body content %s has no example", mt),
								"Add an example payload")
						}
					}
				}
			}

			for _, code := range oas.SortedKeys(mo.Op.Responses) {
				if len(code) != 3 || code[0] != '2' {
					continue
				}
				resp, ok := oas.DerefResponse(doc, mo.Op.Responses[code])
				if !ok || resp == nil {
					continue
				}
				for _, mt := range oas.SortedKeys(resp.Content) {
					checked++
					if mediaTypeHasExample(resp.Content[mt]) {
						withExamples++
					} else {
						add(path, mo.Method, opLoc.WithKey("responses", code).WithKey("content", mt), SeverityWarning,
							fmt.Sprintf("Response %s content %s has no example", code, mt),
							"Add an example payload")
					}
				}
			}

			params := append([]*oas.ParameterRef{}, item.Parameters...)
			params = append(params, mo.Op.Parameters...)
			for _, pref := range params {
				p, ok := oas.DerefParameter(doc, pref)
				if !ok || p == nil {
					continue
				}
				checked++
				if parameterHasExample(p) {
					withExamples++
				} else {
					add(path, mo.Method, opLoc.WithKey("parameters", p.Name), SeverityInfo,
						fmt.Sprintf("Parameter %q has no example", p.Name),
						"Add an example value")
				}
			}
		}
	}

	// A document with nothing to exemplify is not penalized.
	score := r.weight
	if checked > 0 {
		score = int(math.Round(float64(r.weight) * float64(withExamples) / float64(checked)))
	}
	return Result{Score: score, MaxScore: r.weight, Violations: violations}
}

func mediaTypeHasExample(mt *oas.MediaType) bool {
	if mt == nil {
		return false
	}
	if mt.Example != nil || len(mt.Examples) > 0 {
		return true
	}
	if mt.Schema != nil && mt.Schema.Value != nil {
		return mt.Schema.Value.HasExample()
	}
	return false
}

func parameterHasExample(p *oas.Parameter) bool {
	if p.Example != nil || len(p.Examples) > 0 {
		return true
	}
	if p.Schema != nil && p.Schema.Value != nil {
		return p.Schema.Value.HasExample()
	}
	return false
}
