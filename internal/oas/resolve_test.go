package oas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitPointer(t *testing.T) {
	cases := []struct {
		pointer string
		want    []string
		ok      bool
	}{
		{"#/components/schemas/Pet", []string{"components", "schemas", "Pet"}, true},
		{"#/a~1b/c~0d", []string{"a/b", "c~d"}, true},
		{"#/", []string{""}, true},
		{"components/schemas/Pet", nil, false},
		{"http://example.com/spec.yaml#/components", nil, false},
		{"", nil, false},
	}
	for _, tc := range cases {
		got, ok := SplitPointer(tc.pointer)
		require.Equal(t, tc.ok, ok, "pointer %q", tc.pointer)
		if tc.ok {
			require.Equal(t, tc.want, got, "pointer %q", tc.pointer)
		}
	}
}

func TestResolvePointer(t *testing.T) {
	root := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{"type": "object"},
			},
		},
		"servers": []any{
			map[string]any{"url": "https://api.example.com"},
		},
	}

	node, ok := ResolvePointer(root, "#/components/schemas/Pet")
	require.True(t, ok)
	require.Equal(t, map[string]any{"type": "object"}, node)

	node, ok = ResolvePointer(root, "#/servers/0/url")
	require.True(t, ok)
	require.Equal(t, "https://api.example.com", node)

	_, ok = ResolvePointer(root, "#/components/schemas/Missing")
	require.False(t, ok)

	_, ok = ResolvePointer(root, "#/servers/9")
	require.False(t, ok)

	_, ok = ResolvePointer(root, "#/servers/not-a-number")
	require.False(t, ok)

	// Scalar intermediate node is not indexable.
	_, ok = ResolvePointer(root, "#/servers/0/url/deeper")
	require.False(t, ok)
}

func TestResolveSchemaChains(t *testing.T) {
	doc := decode(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
    PetAlias:
      $ref: '#/components/schemas/Pet'
    Dangling:
      $ref: '#/components/schemas/Nothing'
    LoopA:
      $ref: '#/components/schemas/LoopB'
    LoopB:
      $ref: '#/components/schemas/LoopA'
`)

	s, ok := ResolveSchema(doc, "#/components/schemas/Pet")
	require.True(t, ok)
	require.True(t, s.Type.Is("object"))

	// A ref-to-ref chain lands on the final inline schema.
	s, ok = ResolveSchema(doc, "#/components/schemas/PetAlias")
	require.True(t, ok)
	require.True(t, s.Type.Is("object"))

	_, ok = ResolveSchema(doc, "#/components/schemas/Nothing")
	require.False(t, ok)

	_, ok = ResolveSchema(doc, "#/components/schemas/Dangling")
	require.False(t, ok)

	// A reference cycle terminates with an absence result.
	_, ok = ResolveSchema(doc, "#/components/schemas/LoopA")
	require.False(t, ok)

	// Only component-shaped pointers resolve to typed values.
	_, ok = ResolveSchema(doc, "#/paths")
	require.False(t, ok)
	_, ok = ResolveSchema(doc, "external.yaml#/components/schemas/Pet")
	require.False(t, ok)
}

func TestResolveOtherComponentKinds(t *testing.T) {
	doc := decode(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  parameters:
    Limit:
      name: limit
      in: query
  requestBodies:
    Pet:
      description: a pet payload
  responses:
    NotFound:
      description: no such resource
  headers:
    RateLimit:
      description: remaining requests
`)

	p, ok := ResolveParameter(doc, "#/components/parameters/Limit")
	require.True(t, ok)
	require.Equal(t, "limit", p.Name)

	rb, ok := ResolveRequestBody(doc, "#/components/requestBodies/Pet")
	require.True(t, ok)
	require.Equal(t, "a pet payload", rb.Description)

	resp, ok := ResolveResponse(doc, "#/components/responses/NotFound")
	require.True(t, ok)
	require.Equal(t, "no such resource", resp.Description)

	h, ok := ResolveHeader(doc, "#/components/headers/RateLimit")
	require.True(t, ok)
	require.Equal(t, "remaining requests", h.Description)

	_, ok = ResolveParameter(doc, "#/components/parameters/Missing")
	require.False(t, ok)
}

func TestDerefHelpers(t *testing.T) {
	doc := decode(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
`)

	inline := &SchemaRef{Value: &Schema{Type: TypeSet{"string"}}}
	s, ok := DerefSchema(doc, inline)
	require.True(t, ok)
	require.True(t, s.Type.Is("string"))

	byRef := &SchemaRef{Ref: "#/components/schemas/Pet"}
	s, ok = DerefSchema(doc, byRef)
	require.True(t, ok)
	require.True(t, s.Type.Is("object"))

	_, ok = DerefSchema(doc, &SchemaRef{Ref: "#/components/schemas/Nope"})
	require.False(t, ok)

	_, ok = DerefSchema(doc, nil)
	require.False(t, ok)
}

func TestCollectRefs(t *testing.T) {
	doc := decode(t, `
openapi: 3.0.3
info:
  title: t
  version: 1.0.0
paths:
  /pets:
    post:
      requestBody:
        $ref: '#/components/requestBodies/Pet'
      responses:
        "201":
          description: created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  requestBodies:
    Pet:
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  schemas:
    Pet:
      type: object
      properties:
        parent:
          $ref: '#/components/schemas/Pet'
`)

	refs := CollectRefs(doc)
	require.Contains(t, refs, "#/components/requestBodies/Pet")
	require.Contains(t, refs, "#/components/schemas/Pet")
	require.GreaterOrEqual(t, len(refs), 4)
}
