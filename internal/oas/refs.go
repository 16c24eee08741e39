package oas

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SchemaRef is either a $ref pointer or an inline schema, never both.
type SchemaRef struct {
	Ref   string  `json:"$ref,omitempty"`
	Value *Schema `json:"-"`
}

// ParameterRef is either a $ref pointer or an inline parameter.
type ParameterRef struct {
	Ref   string     `json:"$ref,omitempty"`
	Value *Parameter `json:"-"`
}

// RequestBodyRef is either a $ref pointer or an inline request body.
type RequestBodyRef struct {
	Ref   string       `json:"$ref,omitempty"`
	Value *RequestBody `json:"-"`
}

// ResponseRef is either a $ref pointer or an inline response.
type ResponseRef struct {
	Ref   string    `json:"$ref,omitempty"`
	Value *Response `json:"-"`
}

// HeaderRef is either a $ref pointer or an inline header.
type HeaderRef struct {
	Ref   string  `json:"$ref,omitempty"`
	Value *Header `json:"-"`
}

// refTarget returns the $ref value of a mapping node, or "".
func refTarget(node *yaml.Node) string {
	if node.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "$ref" {
			return node.Content[i+1].Value
		}
	}
	return ""
}

// UnmarshalYAML decodes either {$ref: ...} or an inline schema.
func (r *SchemaRef) UnmarshalYAML(node *yaml.Node) error {
	if ref := refTarget(node); ref != "" {
		r.Ref = ref
		return nil
	}
	r.Value = new(Schema)
	return node.Decode(r.Value)
}

// UnmarshalYAML decodes either {$ref: ...} or an inline parameter.
func (r *ParameterRef) UnmarshalYAML(node *yaml.Node) error {
	if ref := refTarget(node); ref != "" {
		r.Ref = ref
		return nil
	}
	r.Value = new(Parameter)
	return node.Decode(r.Value)
}

// UnmarshalYAML decodes either {$ref: ...} or an inline request body.
func (r *RequestBodyRef) UnmarshalYAML(node *yaml.Node) error {
	if ref := refTarget(node); ref != "" {
		r.Ref = ref
		return nil
	}
	r.Value = new(RequestBody)
	return node.Decode(r.Value)
}

// UnmarshalYAML decodes either {$ref: ...} or an inline response.
func (r *ResponseRef) UnmarshalYAML(node *yaml.Node) error {
	if ref := refTarget(node); ref != "" {
		r.Ref = ref
		return nil
	}
	r.Value = new(Response)
	return node.Decode(r.Value)
}

// UnmarshalYAML decodes either {$ref: ...} or an inline header.
func (r *HeaderRef) UnmarshalYAML(node *yaml.Node) error {
	if ref := refTarget(node); ref != "" {
		r.Ref = ref
		return nil
	}
	r.Value = new(Header)
	return node.Decode(r.Value)
}

// TypeSet holds the schema "type" keyword. OpenAPI 3.0 uses a single name;
// 3.1 documents may carry a list of names. An absent keyword is a nil set.
type TypeSet []string

// UnmarshalYAML accepts both the scalar and the list form.
func (t *TypeSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*t = TypeSet{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*t = TypeSet(ss)
		return nil
	default:
		return fmt.Errorf("schema type must be a string or a list of strings")
	}
}

// Primary returns the first non-"null" type name, or "" for an absent type.
func (t TypeSet) Primary() string {
	for _, name := range t {
		if name != "null" {
			return name
		}
	}
	return ""
}

// Is reports whether the set names the given type.
func (t TypeSet) Is(name string) bool {
	for _, n := range t {
		if n == name {
			return true
		}
	}
	return false
}

// AdditionalProperties is the schema "additionalProperties" keyword, which is
// either a boolean toggle or a nested schema.
type AdditionalProperties struct {
	Allowed *bool
	Schema  *SchemaRef
}

// UnmarshalYAML accepts both the boolean and the schema form.
func (a *AdditionalProperties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		a.Allowed = &b
		return nil
	}
	a.Schema = new(SchemaRef)
	return node.Decode(a.Schema)
}

// Permits reports whether additional properties are allowed: either the
// boolean is true or a constraining schema is present.
func (a *AdditionalProperties) Permits() bool {
	if a == nil {
		return false
	}
	if a.Allowed != nil {
		return *a.Allowed
	}
	return a.Schema != nil
}

// IsFreeForm reports the bare "additionalProperties: true" case.
func (a *AdditionalProperties) IsFreeForm() bool {
	return a != nil && a.Allowed != nil && *a.Allowed && a.Schema == nil
}
