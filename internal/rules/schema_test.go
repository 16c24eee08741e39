package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaRuleUnresolvedRef(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        owner:
          $ref: '#/components/schemas/NonExistent'
`)
	res := NewSchemaRule(20).Evaluate(doc)
	v := requireViolation(t, res.Violations, SeverityError, "Unresolved schema reference")
	require.Contains(t, v.Message, "#/components/schemas/NonExistent")
	require.Less(t, res.Score, 20)
}

func TestSchemaRuleMissingType(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Untyped:
      description: a schema with no type and no composition
`)
	res := NewSchemaRule(20).Evaluate(doc)
	requireViolation(t, res.Violations, SeverityError, "lacks a type definition")
}

func TestSchemaRuleCompositionSatisfiesType(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Combined:
      description: composed schema
      example: {}
      allOf:
        - type: object
          description: base part
          example: {}
          properties:
            id:
              type: integer
              description: identifier
              example: 1
          required: [id]
`)
	res := NewSchemaRule(20).Evaluate(doc)
	requireNoViolation(t, res.Violations, "lacks a type definition")
}

func TestSchemaRuleInvalidType(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Bad:
      type: text
`)
	res := NewSchemaRule(20).Evaluate(doc)
	v := requireViolation(t, res.Violations, SeverityError, "Invalid type")
	require.Contains(t, v.Message, "text")
}

func TestSchemaRuleObjectChecks(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Empty:
      type: object
    FreeForm:
      type: object
      additionalProperties: true
`)
	res := NewSchemaRule(20).Evaluate(doc)
	requireViolation(t, res.Violations, SeverityWarning, "no properties or additionalProperties")
	requireViolation(t, res.Violations, SeverityWarning, "completely free-form object")
}

// A typed, described object whose properties are all optional yields exactly
// one info-severity note and no score penalty beyond the zero-weight info
// entries.
func TestSchemaRuleNoRequiredProperties(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      description: a pet record
      example: {id: 1, name: rex}
      properties:
        id:
          type: integer
          format: int64
          description: numeric id
          example: 1
        name:
          type: string
          description: display name
          example: rex
`)
	res := NewSchemaRule(20).Evaluate(doc)
	v := requireViolation(t, res.Violations, SeverityInfo, "none are marked as required")
	require.Contains(t, v.Message, "2 properties")
	require.Equal(t, 20, res.Score, "info findings carry no score weight")
}

func TestSchemaRuleArrayWithoutItems(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    List:
      type: array
`)
	res := NewSchemaRule(20).Evaluate(doc)
	requireViolation(t, res.Violations, SeverityError, "lacks a type definition for its items")
}

func TestSchemaRuleFormats(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Odd:
      type: string
      format: zipcode
    Fine:
      type: string
      format: uuid
      description: an id
      example: 2a27a9a6-6da8-4cd2-9b7b-7e0e7e1f9a11
    Num:
      type: integer
      format: int128
`)
	res := NewSchemaRule(20).Evaluate(doc)
	requireViolation(t, res.Violations, SeverityInfo, `Non-standard format: "zipcode"`)
	requireViolation(t, res.Violations, SeverityInfo, `Non-standard format: "int128"`)
	requireNoViolation(t, res.Violations, `"uuid"`)
}

func TestSchemaRuleEnums(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    EmptyEnum:
      type: string
      enum: []
    NullEnum:
      type: string
      enum: [a, b, null]
    NullableEnum:
      type: string
      nullable: true
      description: fine
      example: a
      enum: [a, null]
`)
	res := NewSchemaRule(20).Evaluate(doc)
	requireViolation(t, res.Violations, SeverityError, "Empty enum array")
	requireViolation(t, res.Violations, SeverityWarning, "not marked as nullable")

	count := 0
	for _, v := range res.Violations {
		if v.Location == "components.schemas.NullableEnum" && v.Severity == SeverityWarning {
			count++
		}
	}
	require.Zero(t, count, "nullable enum with null must not warn")
}

func TestSchemaRuleMissingExampleSeverity(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Obj:
      type: object
      description: d
      properties:
        a:
          type: string
          description: d
      required: [a]
    Str:
      type: string
      description: d
`)
	res := NewSchemaRule(20).Evaluate(doc)

	var objSev, strSev Severity
	for _, v := range res.Violations {
		if v.Message != "Schema has no example" {
			continue
		}
		switch v.Location {
		case "components.schemas.Obj":
			objSev = v.Severity
		case "components.schemas.Str":
			strSev = v.Severity
		}
	}
	require.Equal(t, SeverityWarning, objSev, "complex shapes warrant a warning")
	require.Equal(t, SeverityInfo, strSev)
}

func TestSchemaRuleWalksInlinePathSchemas(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths:
  /things:
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: array
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: nonsense
`)
	res := NewSchemaRule(20).Evaluate(doc)
	reqV := requireViolation(t, res.Violations, SeverityError, "lacks a type definition for its items")
	require.Equal(t, "/things", reqV.Path)
	require.Equal(t, "post", reqV.Operation)
	requireViolation(t, res.Violations, SeverityError, "Invalid type")
}

// Self-referential schemas terminate: a $ref counts once and is not followed
// into its target.
func TestSchemaRuleRefCycle(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Node:
      type: object
      description: linked list node
      example: {next: null}
      properties:
        next:
          $ref: '#/components/schemas/Node'
`)
	res := NewSchemaRule(20).Evaluate(doc)
	requireNoViolation(t, res.Violations, "Unresolved schema reference")
	require.GreaterOrEqual(t, res.Score, 0)
	require.LessOrEqual(t, res.Score, 20)
}

// The recursion bound is injectable; nesting past it is an error instead of
// unbounded traversal.
func TestSchemaRuleConfigurableDepthBound(t *testing.T) {
	doc := mustDoc(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Deep:
      type: object
      description: deeply nested
      example: {}
      properties:
        level1:
          type: object
          description: level one
          example: {}
          properties:
            level2:
              type: object
              description: level two
              example: {}
              properties:
                level3:
                  type: string
                  description: level three
                  example: x
`)
	res := NewSchemaRuleWithDepth(20, 2).Evaluate(doc)
	requireViolation(t, res.Violations, SeverityError, "exceeds the supported depth")

	res = NewSchemaRule(20).Evaluate(doc)
	requireNoViolation(t, res.Violations, "exceeds the supported depth")
}
