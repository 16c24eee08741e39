package rules

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"oascore.io/oascore/internal/oas"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// MiscRule is a composite of independent sub-checks with bounded point
// budgets, rescaled to the rule's weight: versioning, servers, tags,
// components reuse, info completeness, operation ids and external docs.
type MiscRule struct {
	weight int
}

// NewMiscRule constructs the rule with the given weight.
func NewMiscRule(weight int) *MiscRule {
	return &MiscRule{weight: weight}
}

func (r *MiscRule) Name() string  { return "miscellaneous" }
func (r *MiscRule) Title() string { return "Miscellaneous Best Practices" }
func (r *MiscRule) Weight() int   { return r.weight }

const miscMaxPoints = 14

func (r *MiscRule) Evaluate(doc *oas.Document) Result {
	if len(doc.Paths) == 0 {
		return Result{Score: r.weight, MaxScore: r.weight}
	}

	var violations []Violation
	add := func(loc Location, sev Severity, msg, suggestion string) {
		violations = append(violations, Violation{
			Location:   loc.String(),
			Message:    msg,
			Severity:   sev,
			Suggestion: suggestion,
		})
	}

	points := 0
	points += r.checkVersioning(doc, add)
	points += r.checkServers(doc, add)
	points += r.checkTags(doc, &violations)
	points += r.checkComponentsReuse(doc, add)
	points += r.checkInfoCompleteness(doc, add)
	points += r.checkOperationIDs(doc, &violations)
	points += r.checkExternalDocs(doc, add)

	score := int(math.Round(float64(r.weight) * float64(points) / float64(miscMaxPoints)))
	if score > r.weight {
		score = r.weight
	}

	return Result{Score: score, MaxScore: r.weight, Violations: violations}
}

// checkVersioning awards up to 2 points: version present, semver format.
func (r *MiscRule) checkVersioning(doc *oas.Document, add func(Location, Severity, string, string)) int {
	points := 0
	version := ""
	if doc.Info != nil {
		version = strings.TrimSpace(doc.Info.Version)
	}
	if version == "" {
		add(Loc("info", "version"), SeverityWarning,
			"API version is missing",
			"Set info.version")
		return 0
	}
	points++
	if semverPattern.MatchString(version) {
		points++
	} else {
		add(Loc("info", "version"), SeverityInfo,
			fmt.Sprintf("Version %q is not semantic versioning", version),
			"Use MAJOR.MINOR.PATCH versioning")
	}
	return points
}

// checkServers awards up to 2 points: non-empty servers, all URLs valid.
func (r *MiscRule) checkServers(doc *oas.Document, add func(Location, Severity, string, string)) int {
	if len(doc.Servers) == 0 {
		add(Loc("servers"), SeverityWarning,
			"No servers are defined",
			"List the base URLs the API is served from")
		return 0
	}
	points := 1
	allValid := true
	for i, s := range doc.Servers {
		loc := Loc("servers", fmt.Sprintf("%d", i))
		if !validURL(s.URL) {
			allValid = false
			add(loc, SeverityWarning,
				fmt.Sprintf("Server URL %q is not valid", s.URL),
				"Use an absolute URL or a well-formed relative path")
		}
		if strings.TrimSpace(s.Description) == "" {
			add(loc.With("description"), SeverityInfo,
				"Server has no description",
				"Describe the environment the server URL points at")
		}
	}
	if allValid {
		points++
	}
	return points
}

// checkTags awards up to 3 points: tags defined, all described, all used.
func (r *MiscRule) checkTags(doc *oas.Document, violations *[]Violation) int {
	add := func(path, method string, loc Location, sev Severity, msg, suggestion string) {
		*violations = append(*violations, Violation{
			Path: path, Operation: method, Location: loc.String(),
			Message: msg, Severity: sev, Suggestion: suggestion,
		})
	}

	defined := map[string]bool{}
	for _, t := range doc.Tags {
		defined[t.Name] = true
	}

	used := map[string]bool{}
	for _, path := range oas.SortedPaths(doc) {
		for _, mo := range doc.Paths[path].Operations() {
			for _, tag := range mo.Op.Tags {
				used[tag] = true
				if len(defined) > 0 && !defined[tag] {
					add(path, mo.Method, Loc(path, mo.Method, "tags"), SeverityWarning,
						fmt.Sprintf("Tag %q is not declared in the root tags list", tag),
						"Declare the tag under the top-level tags array")
				}
			}
		}
	}

	if len(defined) == 0 {
		add("", "", Loc("tags"), SeverityInfo,
			"No tags are defined",
			"Group operations with tags for navigable documentation")
		return 0
	}
	points := 1

	allDescribed := true
	for _, t := range doc.Tags {
		if strings.TrimSpace(t.Description) == "" {
			allDescribed = false
			add("", "", Loc("tags", t.Name), SeverityInfo,
				fmt.Sprintf("Tag %q has no description", t.Name),
				"Describe what the tag groups")
		}
	}
	if allDescribed {
		points++
	}

	anyUnused := false
	for _, t := range doc.Tags {
		if !used[t.Name] {
			anyUnused = true
			add("", "", Loc("tags", t.Name), SeverityInfo,
				fmt.Sprintf("Tag %q is defined but not used by any operation", t.Name),
				"Tag at least one operation or remove the tag")
		}
	}
	if len(used) > 0 && !anyUnused {
		points++
	}
	return points
}

// checkComponentsReuse awards up to 2 points: non-empty components, at least
// one $ref anywhere.
func (r *MiscRule) checkComponentsReuse(doc *oas.Document, add func(Location, Severity, string, string)) int {
	hasComponents := doc.Components != nil && !doc.Components.IsEmpty()
	refs := oas.CollectRefs(doc)

	if !hasComponents {
		if len(doc.Paths) >= 5 {
			add(Loc("components"), SeverityInfo,
				"Document has many paths but no reusable components",
				"Extract shared schemas and responses into components")
		}
		return 0
	}
	points := 1
	if len(refs) > 0 {
		points++
	} else {
		add(Loc("components"), SeverityInfo,
			"Components are defined but never referenced",
			"Reference components via $ref or remove them")
	}
	return points
}

// checkInfoCompleteness awards up to 2 points: contact and license name.
func (r *MiscRule) checkInfoCompleteness(doc *oas.Document, add func(Location, Severity, string, string)) int {
	points := 0
	if doc.Info != nil && doc.Info.Contact != nil &&
		(doc.Info.Contact.Name != "" || doc.Info.Contact.Email != "" || doc.Info.Contact.URL != "") {
		points++
	} else {
		add(Loc("info", "contact"), SeverityInfo,
			"API contact information is missing",
			"Add a contact name, email or URL")
	}
	if doc.Info != nil && doc.Info.License != nil && strings.TrimSpace(doc.Info.License.Name) != "" {
		points++
	} else {
		add(Loc("info", "license"), SeverityInfo,
			"API license is missing",
			"Name the license the API is published under")
	}
	return points
}

// checkOperationIDs awards up to 2 points: every operation has an id, and no
// two operations share one. The uniqueness point is only awarded together
// with the completeness point.
func (r *MiscRule) checkOperationIDs(doc *oas.Document, violations *[]Violation) int {
	add := func(path, method string, loc Location, sev Severity, msg, suggestion string) {
		*violations = append(*violations, Violation{
			Path: path, Operation: method, Location: loc.String(),
			Message: msg, Severity: sev, Suggestion: suggestion,
		})
	}

	opCount := 0
	allPresent := true
	firstSeen := map[string]string{}
	duplicates := false

	for _, path := range oas.SortedPaths(doc) {
		for _, mo := range doc.Paths[path].Operations() {
			opCount++
			loc := Loc(path, mo.Method, "operationId")
			id := strings.TrimSpace(mo.Op.OperationID)
			if id == "" {
				allPresent = false
				add(path, mo.Method, loc, SeverityWarning,
					"Operation has no operationId",
					"Assign a unique operationId")
				continue
			}
			if prev, ok := firstSeen[id]; ok {
				duplicates = true
				add(path, mo.Method, loc, SeverityError,
					fmt.Sprintf("Duplicate operationId %q, first used by %s", id, prev),
					"Make every operationId unique across the document")
				continue
			}
			firstSeen[id] = path
		}
	}

	if opCount == 0 {
		return 2
	}
	if allPresent && !duplicates {
		return 2
	}
	if allPresent {
		return 1
	}
	return 0
}

// checkExternalDocs awards 1 point for a valid externalDocs URL at root, tag
// or operation level.
func (r *MiscRule) checkExternalDocs(doc *oas.Document, add func(Location, Severity, string, string)) int {
	found := false
	anyPresent := false

	consider := func(ed *oas.ExternalDocs, loc Location) {
		if ed == nil {
			return
		}
		anyPresent = true
		if validURL(ed.URL) && ed.URL != "" {
			found = true
		} else {
			add(loc.With("url"), SeverityInfo,
				fmt.Sprintf("External documentation URL %q is not valid", ed.URL),
				"Point externalDocs.url at a reachable documentation page")
		}
	}

	consider(doc.ExternalDocs, Loc("externalDocs"))
	for _, t := range doc.Tags {
		consider(t.ExternalDocs, Loc("tags", t.Name, "externalDocs"))
	}
	for _, path := range oas.SortedPaths(doc) {
		for _, mo := range doc.Paths[path].Operations() {
			consider(mo.Op.ExternalDocs, Loc(path, mo.Method, "externalDocs"))
		}
	}

	if found {
		return 1
	}
	if !anyPresent {
		add(Loc("externalDocs"), SeverityInfo,
			"No external documentation links anywhere",
			"Link supplementary documentation via externalDocs")
	}
	return 0
}

func validURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	// Relative server URLs like "/v1" are allowed by the specification.
	return u.Scheme != "" && u.Host != "" || strings.HasPrefix(raw, "/")
}
