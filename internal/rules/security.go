package rules

import (
	"fmt"
	"math"

	"oascore.io/oascore/internal/oas"
)

// SecurityRule cross-checks referenced security schemes against the defined
// ones and flags unsecured mutating operations.
type SecurityRule struct {
	weight int
}

// NewSecurityRule constructs the rule with the given weight.
func NewSecurityRule(weight int) *SecurityRule {
	return &SecurityRule{weight: weight}
}

func (r *SecurityRule) Name() string  { return "security" }
func (r *SecurityRule) Title() string { return "Security" }
func (r *SecurityRule) Weight() int   { return r.weight }

var mutatingMethods = map[string]bool{"post": true, "put": true, "patch": true, "delete": true}

func (r *SecurityRule) Evaluate(doc *oas.Document) Result {
	var violations []Violation
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

	defined := map[string]bool{}
	if doc.Components != nil {
		for name := range doc.Components.SecuritySchemes {
			defined[name] = true
		}
	}

	referenced := map[string]bool{}
	for _, req := range doc.Security {
		for name := range req {
			referenced[name] = true
		}
	}

	mutatingOps := 0
	securedMutatingOps := 0
	globalSecured := len(doc.Security) > 0

	for _, path := range oas.SortedPaths(doc) {
		for _, mo := range doc.Paths[path].Operations() {
			opLoc := Loc(path, mo.Method)
			if mo.Op.Security != nil {
				for _, req := range *mo.Op.Security {
					for name := range req {
						referenced[name] = true
					}
				}
			}
			if !mutatingMethods[mo.Method] {
				continue
			}
			mutatingOps++
			switch {
			case mo.Op.Security != nil && len(*mo.Op.Security) == 0:
				add(path, mo.Method, opLoc.With("security"), SeverityWarning,
					"Operation explicitly disables security",
					"Remove the empty security override or document why the operation is public")
			case mo.Op.Security != nil:
				securedMutatingOps++
			case globalSecured:
				securedMutatingOps++
			case len(defined) > 0:
				add(path, mo.Method, opLoc, SeverityWarning,
					"Mutating operation is not secured, but security schemes are defined",
					"Apply one of the defined security schemes to the operation")
			}
		}
	}

	for _, name := range oas.SortedKeys(referenced) {
		if !defined[name] {
			add("", "", Loc("security"), SeverityError,
				fmt.Sprintf("Security scheme %q is referenced but not defined", name),
				"Define the scheme under components.securitySchemes")
		}
	}
	for _, name := range oas.SortedKeys(defined) {
		if !referenced[name] {
			add("", "", Loc("components", "securitySchemes", name), SeverityInfo,
				fmt.Sprintf("Security scheme %q is defined but never referenced", name),
				"Reference the scheme from global or operation security, or remove it")
		}
	}

	if len(defined) == 0 && mutatingOps > 0 {
		add("", "", Loc("components", "securitySchemes"), SeverityError,
			"Specification has mutating operations but no security schemes are defined",
			"Define at least one security scheme and apply it to mutating operations")
	}

	score := r.score(violations, defined, referenced, mutatingOps, securedMutatingOps)
	return Result{Score: score, MaxScore: r.weight, Violations: violations}
}

func (r *SecurityRule) score(violations []Violation, defined, referenced map[string]bool, mutatingOps, securedMutatingOps int) int {
	if mutatingOps == 0 && len(defined) == 0 {
		return r.weight
	}

	if errCount := countSeverity(violations, SeverityError); errCount > 0 {
		score := r.weight - errCount*r.weight/2
		if score < 0 {
			score = 0
		}
		return score
	}

	// One point per mutating operation plus one per distinct referenced
	// scheme; secured operations and resolvable references earn them back.
	potential := mutatingOps + len(referenced)
	points := securedMutatingOps
	for name := range referenced {
		if defined[name] {
			points++
		}
	}
	score := r.weight
	if potential > 0 {
		score = int(math.Round(float64(r.weight) * float64(points) / float64(potential)))
	}
	score -= roundRatio(r.weight, 0.1) * countSeverity(violations, SeverityWarning)
	if score < 0 {
		score = 0
	}
	if score > r.weight {
		score = r.weight
	}
	return score
}
