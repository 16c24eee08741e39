package rules

import (
	"fmt"
	"math"

	"oascore.io/oascore/internal/oas"
)

// Valid schema type names per OpenAPI 3 (including the 3.1 "null").
var validSchemaTypes = map[string]bool{
	"string": true, "number": true, "integer": true,
	"boolean": true, "array": true, "object": true, "null": true,
}

// Standard string formats; anything else is flagged as non-standard.
var standardStringFormats = map[string]bool{
	"date": true, "date-time": true, "password": true, "byte": true,
	"binary": true, "email": true, "uuid": true, "uri": true,
	"hostname": true, "ipv4": true, "ipv6": true,
}

// Standard numeric formats.
var standardNumberFormats = map[string]bool{
	"float": true, "double": true, "int32": true, "int64": true,
}

// SchemaRule recursively validates every schema reachable from components,
// parameters, request bodies and responses for structural soundness.
type SchemaRule struct {
	weight   int
	maxDepth int
}

// DefaultMaxSchemaDepth bounds inline schema nesting before traversal stops
// with an error violation.
const DefaultMaxSchemaDepth = 100

// NewSchemaRule constructs the rule with the given weight and the default
// recursion bound.
func NewSchemaRule(weight int) *SchemaRule {
	return NewSchemaRuleWithDepth(weight, DefaultMaxSchemaDepth)
}

// NewSchemaRuleWithDepth constructs the rule with a custom recursion bound.
// Non-positive bounds fall back to the default.
func NewSchemaRuleWithDepth(weight, maxDepth int) *SchemaRule {
	if maxDepth < 1 {
		maxDepth = DefaultMaxSchemaDepth
	}
	return &SchemaRule{weight: weight, maxDepth: maxDepth}
}

func (r *SchemaRule) Name() string  { return "schema_types" }
func (r *SchemaRule) Title() string { return "Schema & Types" }
func (r *SchemaRule) Weight() int   { return r.weight }

// schemaWalk accumulates the traversal state: a total-schemas counter and a
// set of schema locations with at least one counted violation. The set
// deduplicates penalty units, not reported violations: a location can carry
// several messages but contributes once to the numerator.
type schemaWalk struct {
	doc        *oas.Document
	maxDepth   int
	total      int
	flagged    map[string]bool
	violations []Violation
}

// schemaSite carries the path/operation attribution for violations raised
// under a path tree; both are empty for component schemas.
type schemaSite struct {
	path   string
	method string
}

func (r *SchemaRule) Evaluate(doc *oas.Document) Result {
	w := &schemaWalk{doc: doc, maxDepth: r.maxDepth, flagged: map[string]bool{}}

	if c := doc.Components; c != nil {
		for _, name := range oas.SortedKeys(c.Schemas) {
			w.walkSchema(c.Schemas[name], Loc("components", "schemas", name), schemaSite{}, 0)
		}
		for _, name := range oas.SortedKeys(c.Parameters) {
			w.walkParameter(c.Parameters[name], Loc("components", "parameters", name), schemaSite{})
		}
		for _, name := range oas.SortedKeys(c.RequestBodies) {
			w.walkRequestBody(c.RequestBodies[name], Loc("components", "requestBodies", name), schemaSite{})
		}
		for _, name := range oas.SortedKeys(c.Responses) {
			w.walkResponse(c.Responses[name], Loc("components", "responses", name), schemaSite{})
		}
		for _, name := range oas.SortedKeys(c.Headers) {
			w.walkHeaderNode(c.Headers[name], Loc("components", "headers", name), schemaSite{})
		}
	}

	for _, path := range oas.SortedPaths(doc) {
		item := doc.Paths[path]
		if item == nil {
			continue
		}
		base := Loc(path)
		for i, p := range item.Parameters {
			w.walkParameter(p, base.WithKey("parameters", fmt.Sprintf("%d", i)), schemaSite{path: path})
		}
		for _, mo := range item.Operations() {
			opLoc := base.With(mo.Method)
			site := schemaSite{path: path, method: mo.Method}
			for i, p := range mo.Op.Parameters {
				w.walkParameter(p, opLoc.WithKey("parameters", fmt.Sprintf("%d", i)), site)
			}
			w.walkRequestBody(mo.Op.RequestBody, opLoc.With("requestBody"), site)
			for _, code := range oas.SortedKeys(mo.Op.Responses) {
				w.walkResponse(mo.Op.Responses[code], opLoc.With("responses", code), site)
			}
		}
	}

	// The final ratio averages the flagged-location share with the
	// severity-weighted share, then applies the shared error cap.
	total := w.total
	if total < 1 {
		total = 1
	}
	locRatio := float64(len(w.flagged)) / float64(total)
	var weighted float64
	for _, v := range w.violations {
		weighted += v.Severity.ScoreWeight()
	}
	weightedRatio := weighted / float64(total)
	if weightedRatio > 1 {
		weightedRatio = 1
	}

	combined := (locRatio + weightedRatio) / 2
	score := int(math.Round(float64(r.weight) * (1 - combined)))
	score = capAndClamp(score, r.weight, hasSeverity(w.violations, SeverityError))

	return Result{Score: score, MaxScore: r.weight, Violations: w.violations}
}

// report records a violation and, unless counted is false, marks the
// location as a penalty unit.
func (w *schemaWalk) report(loc Location, site schemaSite, sev Severity, counted bool, msg, suggestion string) {
	w.violations = append(w.violations, Violation{
		Path:       site.path,
		Operation:  site.method,
		Location:   loc.String(),
		Message:    msg,
		Severity:   sev,
		Suggestion: suggestion,
	})
	if counted {
		w.flagged[loc.String()] = true
	}
}

// walkSchema validates one schema node and recurses into its children.
// Reference nodes count as one examined unit: an unresolved reference is an
// error, a resolved one is validated at its definition site under components,
// which also keeps reference cycles from recursing.
func (w *schemaWalk) walkSchema(ref *oas.SchemaRef, loc Location, site schemaSite, depth int) {
	if ref == nil {
		return
	}
	w.total++

	if depth > w.maxDepth {
		w.report(loc, site, SeverityError, true,
			"Schema nesting exceeds the supported depth",
			"Flatten the schema or extract nested objects into components")
		return
	}

	if ref.Ref != "" {
		if _, ok := oas.ResolveSchema(w.doc, ref.Ref); !ok {
			w.report(loc, site, SeverityError, true,
				fmt.Sprintf("Unresolved schema reference: %s", ref.Ref),
				"Point the $ref at an existing schema under #/components/schemas")
		}
		return
	}

	s := ref.Value
	if s == nil {
		return
	}

	if len(s.Type) == 0 && !s.HasComposition() {
		w.report(loc, site, SeverityError, true,
			"Schema lacks a type definition",
			"Declare a type or compose with allOf/oneOf/anyOf")
	}
	for _, name := range s.Type {
		if !validSchemaTypes[name] {
			w.report(loc, site, SeverityError, true,
				fmt.Sprintf("Invalid type: %q", name),
				"Use one of string, number, integer, boolean, array, object, null")
		}
	}

	if s.Type.Is("object") {
		w.checkObject(s, loc, site, depth)
	}

	if s.Type.Is("array") {
		if s.Items == nil {
			w.report(loc, site, SeverityError, true,
				"Array schema lacks a type definition for its items",
				"Add an items schema describing the array elements")
		} else {
			w.walkSchema(s.Items, loc.With("items"), site, depth+1)
		}
	}

	w.checkFormat(s, loc, site)
	w.checkEnum(s, loc, site)

	for i, branch := range s.AllOf {
		w.walkSchema(branch, loc.WithKey("allOf", fmt.Sprintf("%d", i)), site, depth+1)
	}
	for i, branch := range s.OneOf {
		w.walkSchema(branch, loc.WithKey("oneOf", fmt.Sprintf("%d", i)), site, depth+1)
	}
	for i, branch := range s.AnyOf {
		w.walkSchema(branch, loc.WithKey("anyOf", fmt.Sprintf("%d", i)), site, depth+1)
	}

	if s.Description == "" {
		w.report(loc, site, SeverityInfo, true,
			"Schema has no description",
			"Describe what the schema represents")
	}
	if !s.HasExample() {
		sev := SeverityInfo
		if s.Type.Is("object") || s.Type.Is("array") {
			sev = SeverityWarning
		}
		w.report(loc, site, sev, true,
			"Schema has no example",
			"Add an example value so consumers can see the expected shape")
	}
}

func (w *schemaWalk) checkObject(s *oas.Schema, loc Location, site schemaSite, depth int) {
	hasProps := len(s.Properties) > 0
	permitsAdditional := s.AdditionalProperties.Permits()

	if !hasProps && !permitsAdditional && !s.HasComposition() {
		w.report(loc, site, SeverityWarning, true,
			"Object schema has no properties or additionalProperties",
			"Declare properties, allow additionalProperties, or use composition")
	}
	if !hasProps && !s.HasComposition() && s.AdditionalProperties.IsFreeForm() {
		w.report(loc, site, SeverityWarning, true,
			"Schema is a completely free-form object",
			"Constrain additionalProperties with a schema or declare properties")
	}

	for _, name := range oas.SortedKeys(s.Properties) {
		w.walkSchema(s.Properties[name], loc.WithKey("properties", name), site, depth+1)
	}
	if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
		w.walkSchema(s.AdditionalProperties.Schema, loc.With("additionalProperties"), site, depth+1)
	}

	// Informational only: does not mark the location as a penalty unit.
	if hasProps && len(s.Required) == 0 {
		w.report(loc, site, SeverityInfo, false,
			fmt.Sprintf("Object schema has %d properties but none are marked as required", len(s.Properties)),
			"List the mandatory properties under required")
	}
}

func (w *schemaWalk) checkFormat(s *oas.Schema, loc Location, site schemaSite) {
	if s.Format == "" {
		return
	}
	if s.Type.Is("string") && !standardStringFormats[s.Format] {
		w.report(loc, site, SeverityInfo, true,
			fmt.Sprintf("Non-standard format: %q for string type", s.Format),
			"Prefer a standard format such as date-time, email or uuid")
	}
	if (s.Type.Is("number") || s.Type.Is("integer")) && !standardNumberFormats[s.Format] {
		w.report(loc, site, SeverityInfo, true,
			fmt.Sprintf("Non-standard format: %q for numeric type", s.Format),
			"Prefer one of float, double, int32, int64")
	}
}

func (w *schemaWalk) checkEnum(s *oas.Schema, loc Location, site schemaSite) {
	if s.Enum == nil {
		return
	}
	if len(s.Enum) == 0 {
		w.report(loc, site, SeverityError, true,
			"Empty enum array",
			"List the permitted values or drop the enum keyword")
		return
	}
	hasNull := false
	for _, v := range s.Enum {
		if v == nil {
			hasNull = true
			break
		}
	}
	if hasNull && !s.Nullable && !s.Type.Is("null") {
		w.report(loc, site, SeverityWarning, true,
			"Enum contains null but the schema is not marked as nullable",
			"Set nullable: true (or add \"null\" to the type list)")
	}
}

func (w *schemaWalk) walkParameter(ref *oas.ParameterRef, loc Location, site schemaSite) {
	if ref == nil {
		return
	}
	if ref.Ref != "" {
		p, ok := oas.ResolveParameter(w.doc, ref.Ref)
		if !ok {
			w.total++
			w.report(loc, site, SeverityError, true,
				fmt.Sprintf("Unresolved parameter reference: %s", ref.Ref),
				"Point the $ref at an existing parameter under #/components/parameters")
			return
		}
		// Validated at its definition site; inline schema of a component
		// parameter is covered by the components walk.
		_ = p
		return
	}
	if ref.Value != nil && ref.Value.Schema != nil {
		w.walkSchema(ref.Value.Schema, loc.With("schema"), site, 0)
	}
}

func (w *schemaWalk) walkRequestBody(ref *oas.RequestBodyRef, loc Location, site schemaSite) {
	if ref == nil {
		return
	}
	if ref.Ref != "" {
		if _, ok := oas.ResolveRequestBody(w.doc, ref.Ref); !ok {
			w.total++
			w.report(loc, site, SeverityError, true,
				fmt.Sprintf("Unresolved request body reference: %s", ref.Ref),
				"Point the $ref at an existing request body under #/components/requestBodies")
		}
		return
	}
	if ref.Value == nil {
		return
	}
	for _, mt := range oas.SortedKeys(ref.Value.Content) {
		w.walkSchema(ref.Value.Content[mt].Schema, loc.WithKey("content", mt).With("schema"), site, 0)
	}
}

func (w *schemaWalk) walkResponse(ref *oas.ResponseRef, loc Location, site schemaSite) {
	if ref == nil {
		return
	}
	if ref.Ref != "" {
		if _, ok := oas.ResolveResponse(w.doc, ref.Ref); !ok {
			w.total++
			w.report(loc, site, SeverityError, true,
				fmt.Sprintf("Unresolved response reference: %s", ref.Ref),
				"Point the $ref at an existing response under #/components/responses")
		}
		return
	}
	if ref.Value == nil {
		return
	}
	for _, mt := range oas.SortedKeys(ref.Value.Content) {
		w.walkSchema(ref.Value.Content[mt].Schema, loc.WithKey("content", mt).With("schema"), site, 0)
	}
	for _, name := range oas.SortedKeys(ref.Value.Headers) {
		w.walkHeaderNode(ref.Value.Headers[name], loc.WithKey("headers", name), site)
	}
}

func (w *schemaWalk) walkHeaderNode(ref *oas.HeaderRef, loc Location, site schemaSite) {
	if ref == nil {
		return
	}
	if ref.Ref != "" {
		if _, ok := oas.ResolveHeader(w.doc, ref.Ref); !ok {
			w.total++
			w.report(loc, site, SeverityError, true,
				fmt.Sprintf("Unresolved header reference: %s", ref.Ref),
				"Point the $ref at an existing header under #/components/headers")
		}
		return
	}
	if ref.Value != nil && ref.Value.Schema != nil {
		w.walkSchema(ref.Value.Schema, loc.With("schema"), site, 0)
	}
}
