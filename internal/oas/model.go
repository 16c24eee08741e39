// Package oas holds the OpenAPI 3 document model the rule engine evaluates.
//
// The model is deliberately owned by this repository instead of reusing the
// kin-openapi object graph: kin-openapi's loader fails hard on dangling
// internal references, while the rules must observe them and report an
// error-severity violation. Reference positions are therefore explicit
// Ref/Value unions (SchemaRef, ParameterRef, ...) that survive parsing even
// when the target does not exist.
package oas

// Document is the root of a parsed OpenAPI 3 specification.
// It is read-only for the duration of an evaluation.
type Document struct {
	OpenAPI      string                `yaml:"openapi" json:"openapi"`
	Info         *Info                 `yaml:"info" json:"info"`
	Servers      []*Server             `yaml:"servers" json:"servers,omitempty"`
	Tags         []*Tag                `yaml:"tags" json:"tags,omitempty"`
	Paths        map[string]*PathItem  `yaml:"paths" json:"paths"`
	Components   *Components           `yaml:"components" json:"components,omitempty"`
	Security     []SecurityRequirement `yaml:"security" json:"security,omitempty"`
	ExternalDocs *ExternalDocs         `yaml:"externalDocs" json:"externalDocs,omitempty"`
}

// Info carries the document metadata block.
type Info struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Version     string   `yaml:"version" json:"version"`
	Contact     *Contact `yaml:"contact" json:"contact,omitempty"`
	License     *License `yaml:"license" json:"license,omitempty"`
}

// Contact is the info.contact object.
type Contact struct {
	Name  string `yaml:"name" json:"name,omitempty"`
	URL   string `yaml:"url" json:"url,omitempty"`
	Email string `yaml:"email" json:"email,omitempty"`
}

// License is the info.license object.
type License struct {
	Name string `yaml:"name" json:"name,omitempty"`
	URL  string `yaml:"url" json:"url,omitempty"`
}

// Server is one entry of the top-level servers array.
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Tag is one entry of the top-level tags array.
type Tag struct {
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description" json:"description,omitempty"`
	ExternalDocs *ExternalDocs `yaml:"externalDocs" json:"externalDocs,omitempty"`
}

// ExternalDocs links out to external documentation.
type ExternalDocs struct {
	Description string `yaml:"description" json:"description,omitempty"`
	URL         string `yaml:"url" json:"url"`
}

// PathItem groups the operations registered under one URL template,
// plus parameters and documentation shared by all of them.
type PathItem struct {
	Summary     string          `yaml:"summary" json:"summary,omitempty"`
	Description string          `yaml:"description" json:"description,omitempty"`
	Parameters  []*ParameterRef `yaml:"parameters" json:"parameters,omitempty"`

	Get     *Operation `yaml:"get" json:"get,omitempty"`
	Put     *Operation `yaml:"put" json:"put,omitempty"`
	Post    *Operation `yaml:"post" json:"post,omitempty"`
	Delete  *Operation `yaml:"delete" json:"delete,omitempty"`
	Options *Operation `yaml:"options" json:"options,omitempty"`
	Head    *Operation `yaml:"head" json:"head,omitempty"`
	Patch   *Operation `yaml:"patch" json:"patch,omitempty"`
	Trace   *Operation `yaml:"trace" json:"trace,omitempty"`
}

// MethodOperation pairs an HTTP method name with its operation.
type MethodOperation struct {
	Method string
	Op     *Operation
}

// Operations returns the declared operations in a fixed method order,
// so every tree walk over a path item is deterministic.
func (p *PathItem) Operations() []MethodOperation {
	if p == nil {
		return nil
	}
	all := []MethodOperation{
		{"get", p.Get},
		{"put", p.Put},
		{"post", p.Post},
		{"delete", p.Delete},
		{"options", p.Options},
		{"head", p.Head},
		{"patch", p.Patch},
		{"trace", p.Trace},
	}
	out := all[:0]
	for _, mo := range all {
		if mo.Op != nil {
			out = append(out, mo)
		}
	}
	return out
}

// Operation is a single HTTP operation on a path.
//
// Security is a pointer so that an explicit empty list ("no security") stays
// distinguishable from an absent key ("inherit global security").
type Operation struct {
	OperationID  string                  `yaml:"operationId" json:"operationId,omitempty"`
	Summary      string                  `yaml:"summary" json:"summary,omitempty"`
	Description  string                  `yaml:"description" json:"description,omitempty"`
	Tags         []string                `yaml:"tags" json:"tags,omitempty"`
	Parameters   []*ParameterRef         `yaml:"parameters" json:"parameters,omitempty"`
	RequestBody  *RequestBodyRef         `yaml:"requestBody" json:"requestBody,omitempty"`
	Responses    map[string]*ResponseRef `yaml:"responses" json:"responses,omitempty"`
	Security     *[]SecurityRequirement  `yaml:"security" json:"security,omitempty"`
	Deprecated   bool                    `yaml:"deprecated" json:"deprecated,omitempty"`
	ExternalDocs *ExternalDocs           `yaml:"externalDocs" json:"externalDocs,omitempty"`
}

// Parameter describes a single operation or path-item parameter.
type Parameter struct {
	Name        string         `yaml:"name" json:"name"`
	In          string         `yaml:"in" json:"in"`
	Description string         `yaml:"description" json:"description,omitempty"`
	Required    bool           `yaml:"required" json:"required,omitempty"`
	Deprecated  bool           `yaml:"deprecated" json:"deprecated,omitempty"`
	Schema      *SchemaRef     `yaml:"schema" json:"schema,omitempty"`
	Example     any            `yaml:"example" json:"example,omitempty"`
	Examples    map[string]any `yaml:"examples" json:"examples,omitempty"`
}

// RequestBody describes an operation request payload.
type RequestBody struct {
	Description string                `yaml:"description" json:"description,omitempty"`
	Required    bool                  `yaml:"required" json:"required,omitempty"`
	Content     map[string]*MediaType `yaml:"content" json:"content,omitempty"`
}

// Response describes one status-code entry of an operation responses map.
type Response struct {
	Description string                `yaml:"description" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content" json:"content,omitempty"`
	Headers     map[string]*HeaderRef `yaml:"headers" json:"headers,omitempty"`
}

// MediaType binds a schema and examples to one content media type.
type MediaType struct {
	Schema   *SchemaRef     `yaml:"schema" json:"schema,omitempty"`
	Example  any            `yaml:"example" json:"example,omitempty"`
	Examples map[string]any `yaml:"examples" json:"examples,omitempty"`
}

// Header describes a response header.
type Header struct {
	Description string     `yaml:"description" json:"description,omitempty"`
	Required    bool       `yaml:"required" json:"required,omitempty"`
	Schema      *SchemaRef `yaml:"schema" json:"schema,omitempty"`
}

// Schema is the recursive schema node.
type Schema struct {
	Type                 TypeSet               `yaml:"type" json:"type,omitempty"`
	Format               string                `yaml:"format" json:"format,omitempty"`
	Description          string                `yaml:"description" json:"description,omitempty"`
	Properties           map[string]*SchemaRef `yaml:"properties" json:"properties,omitempty"`
	Required             []string              `yaml:"required" json:"required,omitempty"`
	Items                *SchemaRef            `yaml:"items" json:"items,omitempty"`
	AdditionalProperties *AdditionalProperties `yaml:"additionalProperties" json:"additionalProperties,omitempty"`
	Enum                 []any                 `yaml:"enum" json:"enum,omitempty"`
	Nullable             bool                  `yaml:"nullable" json:"nullable,omitempty"`
	AllOf                []*SchemaRef          `yaml:"allOf" json:"allOf,omitempty"`
	OneOf                []*SchemaRef          `yaml:"oneOf" json:"oneOf,omitempty"`
	AnyOf                []*SchemaRef          `yaml:"anyOf" json:"anyOf,omitempty"`
	Example              any                   `yaml:"example" json:"example,omitempty"`
	Examples             []any                 `yaml:"examples" json:"examples,omitempty"`
	Default              any                   `yaml:"default" json:"default,omitempty"`
	Deprecated           bool                  `yaml:"deprecated" json:"deprecated,omitempty"`
}

// HasComposition reports whether the schema uses allOf, oneOf or anyOf.
func (s *Schema) HasComposition() bool {
	return s != nil && (len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0)
}

// HasExample reports whether the schema carries any example value.
func (s *Schema) HasExample() bool {
	return s != nil && (s.Example != nil || len(s.Examples) > 0)
}

// Components is the reusable-object container.
type Components struct {
	Schemas         map[string]*SchemaRef      `yaml:"schemas" json:"schemas,omitempty"`
	Parameters      map[string]*ParameterRef   `yaml:"parameters" json:"parameters,omitempty"`
	RequestBodies   map[string]*RequestBodyRef `yaml:"requestBodies" json:"requestBodies,omitempty"`
	Responses       map[string]*ResponseRef    `yaml:"responses" json:"responses,omitempty"`
	Headers         map[string]*HeaderRef      `yaml:"headers" json:"headers,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `yaml:"securitySchemes" json:"securitySchemes,omitempty"`
	Examples        map[string]any             `yaml:"examples" json:"examples,omitempty"`
}

// IsEmpty reports whether no component section defines anything.
func (c *Components) IsEmpty() bool {
	if c == nil {
		return true
	}
	return len(c.Schemas) == 0 && len(c.Parameters) == 0 && len(c.RequestBodies) == 0 &&
		len(c.Responses) == 0 && len(c.Headers) == 0 && len(c.SecuritySchemes) == 0 &&
		len(c.Examples) == 0
}

// SecurityScheme describes one entry under components.securitySchemes.
type SecurityScheme struct {
	Type             string `yaml:"type" json:"type"`
	Description      string `yaml:"description" json:"description,omitempty"`
	Name             string `yaml:"name" json:"name,omitempty"`
	In               string `yaml:"in" json:"in,omitempty"`
	Scheme           string `yaml:"scheme" json:"scheme,omitempty"`
	BearerFormat     string `yaml:"bearerFormat" json:"bearerFormat,omitempty"`
	OpenIDConnectURL string `yaml:"openIdConnectUrl" json:"openIdConnectUrl,omitempty"`
	Flows            any    `yaml:"flows" json:"flows,omitempty"`
}

// SecurityRequirement maps scheme names to required scopes. Alternatives are
// expressed as multiple requirements in a security list.
type SecurityRequirement map[string][]string
