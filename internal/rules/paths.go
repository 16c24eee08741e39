package rules

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"oascore.io/oascore/internal/oas"
)

var (
	kebabSegment     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	camelCaseParam   = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*[A-Z][a-zA-Z0-9]*$`)
	snakeCaseParam   = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)+$`)
	pathParamPattern = regexp.MustCompile(`\{([^}]+)\}`)
)

// Segments that indicate an action verb in a resource path. Segments nested
// under an "actions" segment are exempt since RPC-style action sub-paths are
// an accepted convention.
var pathVerbs = map[string]bool{
	"get": true, "create": true, "update": true, "delete": true,
	"remove": true, "add": true, "set": true, "fetch": true,
	"list": true, "make": true, "edit": true, "modify": true,
}

// Success codes that satisfy the POST-created and DELETE-no-content
// conventions.
const (
	createdCode   = "201"
	noContentCode = "204"
)

// PathsRule checks URL design conventions: naming, trailing slashes, path
// conflicts, CRUD coverage per resource group and path-parameter declarations.
type PathsRule struct {
	weight int
}

// NewPathsRule constructs the rule with the given weight.
func NewPathsRule(weight int) *PathsRule {
	return &PathsRule{weight: weight}
}

func (r *PathsRule) Name() string  { return "paths_operations" }
func (r *PathsRule) Title() string { return "Paths & Operations" }
func (r *PathsRule) Weight() int   { return r.weight }

func (r *PathsRule) Evaluate(doc *oas.Document) Result {
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

	r.checkTrailingSlashes(paths, add)
	r.checkParamNaming(paths, add)
	r.checkConflicts(doc, paths, add)
	r.checkNestingDuplicates(paths, add)

	for _, path := range paths {
		r.checkSegments(path, add)
		r.checkCRUDShape(doc, path, add)
		r.checkOperations(doc, path, add)
	}

	// Errors dominate the penalty, warnings and infos taper off, all
	// normalized by the path count so large documents are not punished for
	// their size alone.
	errs := float64(countSeverity(violations, SeverityError))
	warns := float64(countSeverity(violations, SeverityWarning))
	infos := float64(countSeverity(violations, SeverityInfo))
	pct := (0.7*errs + 0.2*warns + 0.1*infos) / float64(len(paths))
	if pct > 1 {
		pct = 1
	}
	score := int(math.Round(float64(r.weight) * (1 - pct)))
	score = capAndClamp(score, r.weight, errs > 0)

	return Result{Score: score, MaxScore: r.weight, Violations: violations}
}

type addFunc func(path, method string, loc Location, sev Severity, msg, suggestion string)

func (r *PathsRule) checkTrailingSlashes(paths []string, add addFunc) {
	with, without := 0, 0
	for _, p := range paths {
		if p == "/" {
			continue
		}
		if strings.HasSuffix(p, "/") {
			with++
		} else {
			without++
		}
	}
	if with > 0 && without > 0 {
		add("", "", Loc("paths"), SeverityWarning,
			fmt.Sprintf("Inconsistent trailing slash usage: %d paths with, %d without", with, without),
			"Pick one convention and apply it to every path")
	}
}

func (r *PathsRule) checkParamNaming(paths []string, add addFunc) {
	camel, snake := 0, 0
	for _, p := range paths {
		for _, m := range pathParamPattern.FindAllStringSubmatch(p, -1) {
			name := m[1]
			if camelCaseParam.MatchString(name) {
				camel++
			} else if snakeCaseParam.MatchString(name) {
				snake++
			}
		}
	}
	if camel > 0 && snake > 0 {
		add("", "", Loc("paths"), SeverityWarning,
			"Path parameters mix camelCase and snake_case naming",
			"Use one parameter naming convention across all paths")
	}
}

// normalizePath replaces every parameter segment with a wildcard token so
// that /users/{userId} and /users/{username} compare equal.
func normalizePath(path string) string {
	return pathParamPattern.ReplaceAllString(path, "{}")
}

func (r *PathsRule) checkConflicts(doc *oas.Document, paths []string, add addFunc) {
	// normalized path -> method -> first declaring path
	seen := map[string]map[string]string{}
	for _, path := range paths {
		norm := normalizePath(path)
		if seen[norm] == nil {
			seen[norm] = map[string]string{}
		}
		for _, mo := range doc.Paths[path].Operations() {
			if first, ok := seen[norm][mo.Method]; ok {
				add(path, mo.Method, Loc(path), SeverityWarning,
					fmt.Sprintf("Potential path conflict for %s method: %s overlaps %s",
						strings.ToUpper(mo.Method), path, first),
					"Merge the overlapping paths or disambiguate the parameter segments")
				continue
			}
			seen[norm][mo.Method] = path
		}
	}
}

func (r *PathsRule) checkNestingDuplicates(paths []string, add addFunc) {
	topLevel := map[string]bool{}
	nested := map[string]string{}
	for _, p := range paths {
		segs := splitPath(p)
		for i, s := range segs {
			if s == "" || strings.HasPrefix(s, "{") {
				continue
			}
			if i == 0 {
				topLevel[s] = true
			} else {
				if _, ok := nested[s]; !ok {
					nested[s] = p
				}
			}
		}
	}
	for _, res := range oas.SortedKeys(topLevel) {
		if p, ok := nested[res]; ok {
			add(p, "", Loc(p), SeverityInfo,
				fmt.Sprintf("Resource %q appears both top-level and nested", res),
				"Consider exposing the resource at a single canonical location")
		}
	}
}

func (r *PathsRule) checkSegments(path string, add addFunc) {
	segs := splitPath(path)
	verbExempt := false
	for _, s := range segs {
		if s == "" || strings.HasPrefix(s, "{") {
			continue
		}
		exempt := verbExempt
		// Only the segment right after "actions" is exempt, and only from
		// the verb check.
		verbExempt = s == "actions"
		if !kebabSegment.MatchString(s) {
			add(path, "", Loc(path), SeverityWarning,
				fmt.Sprintf("Path segment %q is not kebab-case", s),
				"Use lowercase words separated by hyphens")
		}
		if !exempt && pathVerbs[strings.ToLower(s)] {
			add(path, "", Loc(path), SeverityWarning,
				fmt.Sprintf("Path segment %q looks like a verb", s),
				"Model the action as an HTTP method on a noun resource")
		}
	}

	// Collection-like path: last static segment of a path with no trailing
	// parameter should usually be a plural noun.
	if len(segs) > 0 {
		last := segs[len(segs)-1]
		if last != "" && !strings.HasPrefix(last, "{") && !pathVerbs[strings.ToLower(last)] &&
			!strings.HasSuffix(last, "s") {
			add(path, "", Loc(path), SeverityInfo,
				fmt.Sprintf("Collection segment %q is not plural", last),
				"Name collection resources with plural nouns")
		}
	}
}

// checkCRUDShape applies the collection/resource method conventions.
func (r *PathsRule) checkCRUDShape(doc *oas.Document, path string, add addFunc) {
	item := doc.Paths[path]
	segs := splitPath(path)
	if item == nil || len(segs) == 0 {
		return
	}
	last := segs[len(segs)-1]
	isResource := strings.HasPrefix(last, "{")

	if isResource {
		if item.Get == nil {
			add(path, "", Loc(path), SeverityInfo,
				"Resource path has no GET operation",
				"Expose GET to retrieve the individual resource")
		}
		if item.Put == nil && item.Patch == nil {
			add(path, "", Loc(path), SeverityInfo,
				"Resource path has neither PUT nor PATCH",
				"Expose PUT or PATCH to update the resource")
		}
		if item.Delete == nil {
			add(path, "", Loc(path), SeverityInfo,
				"Resource path has no DELETE operation",
				"Expose DELETE to remove the resource")
		}
		if item.Post != nil {
			add(path, "post", Loc(path, "post"), SeverityInfo,
				"POST on an individual resource path is unusual",
				"Create resources via POST on the collection path instead")
		}
		return
	}

	if item.Get == nil {
		add(path, "", Loc(path), SeverityInfo,
			"Collection path has no GET (list) operation",
			"Expose GET to list the collection")
	}
	if item.Post == nil {
		add(path, "", Loc(path), SeverityInfo,
			"Collection path has no POST (create) operation",
			"Expose POST to create new entries")
	}
	if item.Put != nil {
		add(path, "put", Loc(path, "put"), SeverityWarning,
			"PUT on a collection path is unusual",
			"Replace individual resources via PUT on /collection/{id}")
	}
	if item.Delete != nil {
		add(path, "delete", Loc(path, "delete"), SeverityInfo,
			"DELETE on a collection path is unusual",
			"Delete individual resources via DELETE on /collection/{id}")
	}
}

func (r *PathsRule) checkOperations(doc *oas.Document, path string, add addFunc) {
	item := doc.Paths[path]
	if item == nil {
		return
	}
	tokens := pathParamPattern.FindAllStringSubmatch(path, -1)

	for _, mo := range item.Operations() {
		opLoc := Loc(path, mo.Method)

		// Every {token} in the path must be declared as an in:path
		// parameter, either on the operation or inherited from the path item.
		declared := map[string]bool{}
		for _, pref := range append(append([]*oas.ParameterRef{}, item.Parameters...), mo.Op.Parameters...) {
			p, ok := oas.DerefParameter(doc, pref)
			if ok && p != nil && p.In == "path" {
				declared[p.Name] = true
			}
		}
		for _, m := range tokens {
			if !declared[m[1]] {
				add(path, mo.Method, opLoc, SeverityError,
					fmt.Sprintf("Path parameter {%s} is not declared as an in:path parameter", m[1]),
					"Declare the parameter with in: path and required: true")
			}
		}

		if mo.Method == "get" && mo.Op.RequestBody != nil {
			add(path, mo.Method, opLoc.With("requestBody"), SeverityWarning,
				"GET operation declares a request body",
				"Move request data into query parameters")
		}
		if mo.Method == "post" && mo.Op.RequestBody == nil {
			add(path, mo.Method, opLoc, SeverityWarning,
				"POST operation has no request body",
				"Declare the payload the operation accepts")
		}

		has2xx := false
		for code := range mo.Op.Responses {
			if len(code) == 3 && code[0] == '2' {
				has2xx = true
				break
			}
		}
		if !has2xx {
			add(path, mo.Method, opLoc.With("responses"), SeverityWarning,
				"Operation declares no success response",
				"Add a 2xx response")
		}
		if mo.Method == "post" {
			if _, ok := mo.Op.Responses[createdCode]; !ok {
				add(path, mo.Method, opLoc.With("responses"), SeverityInfo,
					"POST operation does not declare a 201 response",
					"Return 201 Created when a resource is created")
			}
		}
		if mo.Method == "delete" {
			if _, ok := mo.Op.Responses[noContentCode]; !ok {
				add(path, mo.Method, opLoc.With("responses"), SeverityInfo,
					"DELETE operation does not declare a 204 response",
					"Return 204 No Content on successful deletion")
			}
		}
	}
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
