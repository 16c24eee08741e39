package rules

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"oascore.io/oascore/internal/oas"
)

var statusCodePattern = regexp.MustCompile(`^[1-5][0-9][0-9]$`)

// Conventional success codes per HTTP method.
var expectedSuccessCodes = map[string]map[string]bool{
	"get":     {"200": true, "206": true, "304": true},
	"post":    {"200": true, "201": true, "202": true},
	"put":     {"200": true, "201": true, "202": true, "204": true},
	"patch":   {"200": true, "202": true, "204": true},
	"delete":  {"200": true, "202": true, "204": true},
	"head":    {"200": true, "204": true, "304": true},
	"options": {"200": true, "204": true},
	"trace":   {"200": true},
}

// Valid but rarely appropriate status codes.
var uncommonStatusCodes = map[string]bool{
	"203": true, "205": true, "208": true, "226": true,
	"300": true, "305": true, "306": true, "307": true, "308": true,
	"402": true, "407": true, "408": true, "411": true, "414": true,
	"416": true, "417": true, "418": true, "421": true, "423": true,
	"424": true, "426": true, "428": true, "431": true, "451": true,
	"505": true, "506": true, "507": true, "508": true, "510": true,
	"511": true,
}

// ResponsesRule checks that every operation declares a sensible set of
// response codes with descriptions and content schemas.
type ResponsesRule struct {
	weight int
}

// NewResponsesRule constructs the rule with the given weight.
func NewResponsesRule(weight int) *ResponsesRule {
	return &ResponsesRule{weight: weight}
}

func (r *ResponsesRule) Name() string  { return "response_codes" }
func (r *ResponsesRule) Title() string { return "Response Codes" }
func (r *ResponsesRule) Weight() int   { return r.weight }

func (r *ResponsesRule) Evaluate(doc *oas.Document) Result {
	paths := oas.SortedPaths(doc)
	if len(paths) == 0 {
		return Result{
			Score:    0,
			MaxScore: r.weight,
			Violations: []Violation{{
				Location:   "paths",
				Message:    "Specification defines no paths",
				Severity:   SeverityError,
				Suggestion: "Add at least one path with an operation",
			}},
		}
	}

	var violations []Violation
	opCount := 0
	cleanOps := 0

	for _, path := range paths {
		item := doc.Paths[path]
		for _, mo := range item.Operations() {
			opCount++
			before := len(violations)
			violations = r.checkOperation(doc, path, item, mo, violations)
			if len(violations) == before {
				cleanOps++
			}
		}
	}

	denom := opCount
	if denom < 1 {
		denom = 1
	}
	score := int(math.Round(float64(r.weight) * float64(cleanOps) / float64(denom)))

	// Errors carry an extra cap plus a density penalty so a few valid
	// operations cannot mask invalid status codes elsewhere.
	if errCount := countSeverity(violations, SeverityError); errCount > 0 {
		cap80 := int(math.Round(float64(r.weight) * 0.8))
		if score > cap80 {
			score = cap80
		}
		density := float64(errCount) / float64(denom)
		if density > 1 {
			density = 1
		}
		score -= int(math.Round(float64(r.weight) * 0.2 * density))
	}
	if score < 0 {
		score = 0
	}
	if score > r.weight {
		score = r.weight
	}

	return Result{Score: score, MaxScore: r.weight, Violations: violations}
}

func (r *ResponsesRule) checkOperation(doc *oas.Document, path string, item *oas.PathItem, mo oas.MethodOperation, violations []Violation) []Violation {
	opLoc := Loc(path, mo.Method)
	add := func(loc Location, sev Severity, msg, suggestion string) {
		violations = append(violations, Violation{
			Path:       path,
			Operation:  mo.Method,
			Location:   loc.String(),
			Message:    msg,
			Severity:   sev,
			Suggestion: suggestion,
		})
	}

	if len(mo.Op.Responses) == 0 {
		add(opLoc, SeverityError,
			"Operation is missing response definitions",
			"Declare the responses the operation can return")
		return violations
	}

	codes := oas.SortedKeys(mo.Op.Responses)
	hasDefault := false
	has2xx, matches2xx := false, false
	has4xx, has5xx := false, false
	for _, code := range codes {
		if strings.EqualFold(code, "default") {
			hasDefault = true
			continue
		}
		if !statusCodePattern.MatchString(code) {
			add(opLoc.WithKey("responses", code), SeverityError,
				fmt.Sprintf("Invalid HTTP status code: %s", code),
				"Use a three-digit code between 100 and 599, or \"default\"")
			continue
		}
		switch code[0] {
		case '1':
			add(opLoc.WithKey("responses", code), SeverityInfo,
				fmt.Sprintf("Unusual informational status code: %s", code),
				"1xx responses are rarely part of an API contract")
		case '2':
			has2xx = true
			if expectedSuccessCodes[mo.Method][code] {
				matches2xx = true
			}
		case '4':
			has4xx = true
		case '5':
			has5xx = true
		}
		if uncommonStatusCodes[code] {
			add(opLoc.WithKey("responses", code), SeverityInfo,
				fmt.Sprintf("Uncommon HTTP status code: %s", code),
				"Prefer a more conventional status code if one fits")
		}
	}

	if !has2xx && !hasDefault {
		add(opLoc.With("responses"), SeverityError,
			"Operation declares neither a success response nor a default",
			"Add a 2xx or default response")
	}
	if has2xx && !matches2xx {
		add(opLoc.With("responses"), SeverityWarning,
			fmt.Sprintf("Unusual success codes for %s", strings.ToUpper(mo.Method)),
			"Use the conventional success code for the HTTP method")
	}
	if !has4xx {
		add(opLoc.With("responses"), SeverityWarning,
			"Operation declares no client error (4xx) response",
			"Document how invalid requests are answered")
	}
	if r.operationSecured(doc, mo.Op) {
		_, has401 := mo.Op.Responses["401"]
		_, has403 := mo.Op.Responses["403"]
		if !has401 && !has403 {
			add(opLoc.With("responses"), SeverityWarning,
				"Secured operation declares neither 401 nor 403",
				"Document the authentication and authorization failures")
		}
	}
	if strings.Contains(path, "{") {
		switch mo.Method {
		case "get", "put", "patch", "delete":
			if _, ok := mo.Op.Responses["404"]; !ok {
				add(opLoc.With("responses"), SeverityWarning,
					"Parameterized path operation declares no 404 response",
					"Document the resource-not-found case")
			}
		}
	}
	if mo.Op.RequestBody != nil {
		_, has400 := mo.Op.Responses["400"]
		_, has422 := mo.Op.Responses["422"]
		if !has400 && !has422 {
			add(opLoc.With("responses"), SeverityWarning,
				"Operation with a request body declares neither 400 nor 422",
				"Document how malformed payloads are rejected")
		}
	}
	if !has5xx {
		add(opLoc.With("responses"), SeverityWarning,
			"Operation declares no server error (5xx) response",
			"Document the server failure contract")
	}
	if !hasDefault {
		add(opLoc.With("responses"), SeverityInfo,
			"Operation declares no default response",
			"Add a default response as a catch-all")
	}

	for _, code := range codes {
		rLoc := opLoc.WithKey("responses", code)
		resp, ok := oas.DerefResponse(doc, mo.Op.Responses[code])
		if !ok {
			add(rLoc, SeverityError,
				fmt.Sprintf("Unresolved response reference: %s", mo.Op.Responses[code].Ref),
				"Point the $ref at an existing response under #/components/responses")
			continue
		}
		if resp == nil {
			continue
		}
		if strings.TrimSpace(resp.Description) == "" {
			add(rLoc, SeverityWarning,
				fmt.Sprintf("Response %s has an empty description", code),
				"Describe when this response is returned")
		}
		if len(code) == 3 {
			switch code[0] {
			case '2':
				if code != "204" && len(resp.Content) == 0 && r.successNeedsContent(mo.Method, code) {
					add(rLoc, SeverityWarning,
						fmt.Sprintf("Success response %s declares no content", code),
						"Declare the response body media types and schemas")
				}
			case '4', '5':
				if len(resp.Content) == 0 {
					add(rLoc, SeverityInfo,
						fmt.Sprintf("Error response %s declares no content", code),
						"Consider a structured error body")
				}
			}
		}
		for _, mt := range oas.SortedKeys(resp.Content) {
			if resp.Content[mt].Schema == nil {
				add(rLoc.WithKey("content", mt), SeverityWarning,
					fmt.Sprintf("Content %s declares no schema", mt),
					"Add a schema describing the payload shape")
			}
		}
	}

	return violations
}

// successNeedsContent reports whether a 2xx response on this method is
// expected to carry a body.
func (r *ResponsesRule) successNeedsContent(method, code string) bool {
	switch method {
	case "get", "post":
		return true
	case "put":
		return code == "200"
	default:
		return false
	}
}

// operationSecured reports whether the operation requires authentication,
// either through its own security list or an inherited global one.
func (r *ResponsesRule) operationSecured(doc *oas.Document, op *oas.Operation) bool {
	if op.Security != nil {
		return len(*op.Security) > 0
	}
	return len(doc.Security) > 0
}
