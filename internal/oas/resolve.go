package oas

import (
	"strconv"
	"strings"
)

// Reference resolution. Everything here is a pure function over an immutable
// document: a pointer that is external, malformed, dangling, or cyclic
// resolves to an absence result, never to an error or a panic. Callers turn
// absence into an error-severity violation.

// SplitPointer parses a local JSON pointer of the form "#/a/b/c" into its
// unescaped segments per RFC 6901 ("~1" -> "/", "~0" -> "~"). Pointers that
// do not start with "#/" (external or malformed references) yield ok=false.
func SplitPointer(pointer string) ([]string, bool) {
	if !strings.HasPrefix(pointer, "#/") {
		return nil, false
	}
	raw := strings.Split(pointer[2:], "/")
	segs := make([]string, len(raw))
	for i, s := range raw {
		s = strings.ReplaceAll(s, "~1", "/")
		s = strings.ReplaceAll(s, "~0", "~")
		segs[i] = s
	}
	return segs, true
}

// ResolvePointer walks a decoded YAML/JSON tree segment by segment and
// returns the target node. Maps are indexed by key, sequences by decimal
// index. Any missing segment, non-container intermediate node, or malformed
// pointer yields ok=false.
func ResolvePointer(root any, pointer string) (any, bool) {
	segs, ok := SplitPointer(pointer)
	if !ok {
		return nil, false
	}
	node := root
	for _, seg := range segs {
		switch c := node.(type) {
		case map[string]any:
			next, found := c[seg]
			if !found {
				return nil, false
			}
			node = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			node = c[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

// componentName extracts the component name from a pointer of the shape
// "#/components/<kind>/<name>". Anything else yields ok=false.
func componentName(pointer, kind string) (string, bool) {
	segs, ok := SplitPointer(pointer)
	if !ok || len(segs) != 3 || segs[0] != "components" || segs[1] != kind {
		return "", false
	}
	return segs[2], true
}

// ResolveSchema resolves a schema reference against the document components,
// following reference chains. A chain that leaves the components section,
// dangles, or loops yields ok=false.
func ResolveSchema(doc *Document, ref string) (*Schema, bool) {
	visited := map[string]bool{}
	for {
		name, ok := componentName(ref, "schemas")
		if !ok || doc == nil || doc.Components == nil || visited[name] {
			return nil, false
		}
		visited[name] = true
		node := doc.Components.Schemas[name]
		if node == nil {
			return nil, false
		}
		if node.Value != nil {
			return node.Value, true
		}
		ref = node.Ref
	}
}

// ResolveParameter resolves a parameter reference against the components.
func ResolveParameter(doc *Document, ref string) (*Parameter, bool) {
	visited := map[string]bool{}
	for {
		name, ok := componentName(ref, "parameters")
		if !ok || doc == nil || doc.Components == nil || visited[name] {
			return nil, false
		}
		visited[name] = true
		node := doc.Components.Parameters[name]
		if node == nil {
			return nil, false
		}
		if node.Value != nil {
			return node.Value, true
		}
		ref = node.Ref
	}
}

// ResolveRequestBody resolves a request-body reference against the components.
func ResolveRequestBody(doc *Document, ref string) (*RequestBody, bool) {
	visited := map[string]bool{}
	for {
		name, ok := componentName(ref, "requestBodies")
		if !ok || doc == nil || doc.Components == nil || visited[name] {
			return nil, false
		}
		visited[name] = true
		node := doc.Components.RequestBodies[name]
		if node == nil {
			return nil, false
		}
		if node.Value != nil {
			return node.Value, true
		}
		ref = node.Ref
	}
}

// ResolveResponse resolves a response reference against the components.
func ResolveResponse(doc *Document, ref string) (*Response, bool) {
	visited := map[string]bool{}
	for {
		name, ok := componentName(ref, "responses")
		if !ok || doc == nil || doc.Components == nil || visited[name] {
			return nil, false
		}
		visited[name] = true
		node := doc.Components.Responses[name]
		if node == nil {
			return nil, false
		}
		if node.Value != nil {
			return node.Value, true
		}
		ref = node.Ref
	}
}

// ResolveHeader resolves a header reference against the components.
func ResolveHeader(doc *Document, ref string) (*Header, bool) {
	visited := map[string]bool{}
	for {
		name, ok := componentName(ref, "headers")
		if !ok || doc == nil || doc.Components == nil || visited[name] {
			return nil, false
		}
		visited[name] = true
		node := doc.Components.Headers[name]
		if node == nil {
			return nil, false
		}
		if node.Value != nil {
			return node.Value, true
		}
		ref = node.Ref
	}
}

// DerefSchema returns the schema behind a ref node, inline or resolved.
func DerefSchema(doc *Document, r *SchemaRef) (*Schema, bool) {
	if r == nil {
		return nil, false
	}
	if r.Value != nil {
		return r.Value, true
	}
	return ResolveSchema(doc, r.Ref)
}

// DerefParameter returns the parameter behind a ref node, inline or resolved.
func DerefParameter(doc *Document, r *ParameterRef) (*Parameter, bool) {
	if r == nil {
		return nil, false
	}
	if r.Value != nil {
		return r.Value, true
	}
	return ResolveParameter(doc, r.Ref)
}

// DerefRequestBody returns the request body behind a ref node.
func DerefRequestBody(doc *Document, r *RequestBodyRef) (*RequestBody, bool) {
	if r == nil {
		return nil, false
	}
	if r.Value != nil {
		return r.Value, true
	}
	return ResolveRequestBody(doc, r.Ref)
}

// DerefResponse returns the response behind a ref node.
func DerefResponse(doc *Document, r *ResponseRef) (*Response, bool) {
	if r == nil {
		return nil, false
	}
	if r.Value != nil {
		return r.Value, true
	}
	return ResolveResponse(doc, r.Ref)
}

// DerefHeader returns the header behind a ref node.
func DerefHeader(doc *Document, r *HeaderRef) (*Header, bool) {
	if r == nil {
		return nil, false
	}
	if r.Value != nil {
		return r.Value, true
	}
	return ResolveHeader(doc, r.Ref)
}

// CollectRefs gathers every $ref string reachable in the document: component
// and inline schemas, parameters, request bodies, responses and headers.
// Inline schema recursion is a finite tree, so no cycle guard is needed; only
// reference chains can loop and those are never followed here.
func CollectRefs(doc *Document) []string {
	var refs []string
	add := func(ref string) {
		if ref != "" {
			refs = append(refs, ref)
		}
	}

	var fromSchema func(r *SchemaRef)
	fromSchema = func(r *SchemaRef) {
		if r == nil {
			return
		}
		add(r.Ref)
		s := r.Value
		if s == nil {
			return
		}
		for _, name := range SortedKeys(s.Properties) {
			fromSchema(s.Properties[name])
		}
		fromSchema(s.Items)
		if s.AdditionalProperties != nil {
			fromSchema(s.AdditionalProperties.Schema)
		}
		for _, branch := range s.AllOf {
			fromSchema(branch)
		}
		for _, branch := range s.OneOf {
			fromSchema(branch)
		}
		for _, branch := range s.AnyOf {
			fromSchema(branch)
		}
	}

	fromParameter := func(r *ParameterRef) {
		if r == nil {
			return
		}
		add(r.Ref)
		if r.Value != nil {
			fromSchema(r.Value.Schema)
		}
	}
	fromContent := func(content map[string]*MediaType) {
		for _, mt := range SortedKeys(content) {
			fromSchema(content[mt].Schema)
		}
	}
	fromRequestBody := func(r *RequestBodyRef) {
		if r == nil {
			return
		}
		add(r.Ref)
		if r.Value != nil {
			fromContent(r.Value.Content)
		}
	}
	fromResponse := func(r *ResponseRef) {
		if r == nil {
			return
		}
		add(r.Ref)
		if r.Value == nil {
			return
		}
		fromContent(r.Value.Content)
		for _, name := range SortedKeys(r.Value.Headers) {
			h := r.Value.Headers[name]
			add(h.Ref)
			if h.Value != nil {
				fromSchema(h.Value.Schema)
			}
		}
	}

	for _, path := range SortedPaths(doc) {
		item := doc.Paths[path]
		for _, p := range item.Parameters {
			fromParameter(p)
		}
		for _, mo := range item.Operations() {
			for _, p := range mo.Op.Parameters {
				fromParameter(p)
			}
			fromRequestBody(mo.Op.RequestBody)
			for _, code := range SortedKeys(mo.Op.Responses) {
				fromResponse(mo.Op.Responses[code])
			}
		}
	}
	if c := doc.Components; c != nil {
		for _, name := range SortedKeys(c.Schemas) {
			fromSchema(c.Schemas[name])
		}
		for _, name := range SortedKeys(c.Parameters) {
			fromParameter(c.Parameters[name])
		}
		for _, name := range SortedKeys(c.RequestBodies) {
			fromRequestBody(c.RequestBodies[name])
		}
		for _, name := range SortedKeys(c.Responses) {
			fromResponse(c.Responses[name])
		}
		for _, name := range SortedKeys(c.Headers) {
			h := c.Headers[name]
			add(h.Ref)
			if h.Value != nil {
				fromSchema(h.Value.Schema)
			}
		}
	}
	return refs
}
