package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classkit/classkit/runtime"
	"github.com/classkit/classkit/runtime/inmemory"
	"github.com/classkit/classkit/schema"
)

func TestGenerateClassDocument(t *testing.T) {
	host := personHost(t)
	gen := schema.NewGenerator(host)

	root, err := schema.GenerateClass(gen, runtime.NamedClass("Person"))
	require.NoError(t, err)

	out, err := root.ToJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$defs": {
			"Fact": {
				"type": "object",
				"properties": {
					"text": {"type": "string"},
					"confidence": {"type": "number"}
				},
				"required": ["text", "confidence"],
				"additionalProperties": false
			},
			"Person.Gender": {"type": "string", "enum": ["Male", "Female"]},
			"Vector2": {
				"type": "object",
				"properties": {
					"x": {"type": "number"},
					"y": {"type": "number"}
				},
				"required": ["x", "y"],
				"additionalProperties": false
			}
		},
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"},
			"gender": {"$ref": "#/$defs/Person.Gender"},
			"facts": {"type": "array", "items": {"$ref": "#/$defs/Fact"}},
			"position": {"$ref": "#/$defs/Vector2"}
		},
		"required": ["name", "age", "gender", "facts", "position"],
		"additionalProperties": false
	}`, string(out))
}

func TestGenerateClassKeepsSelfReference(t *testing.T) {
	recursive, err := newRecursiveHost()
	require.NoError(t, err)
	gen := schema.NewGenerator(recursive)

	root, err := schema.GenerateClass(gen, runtime.NamedClass("TreeNode"))
	require.NoError(t, err)
	// The base references itself, so it must stay in the defs table for the
	// document's own "$ref" entries to resolve.
	_, err = root.Defs.Resolve("TreeNode")
	require.NoError(t, err)
}

func TestGenerateTypeDocuments(t *testing.T) {
	host := personHost(t)
	gen := schema.NewGenerator(host)

	t.Run("composite base inlines its structure", func(t *testing.T) {
		root, err := schema.GenerateType(gen, runtime.PropertyInfo{Kind: runtime.KindVector2})
		require.NoError(t, err)
		out, err := root.ToJSON()
		require.NoError(t, err)
		require.JSONEq(t, `{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"$defs": {},
			"type": "object",
			"properties": {
				"x": {"type": "number"},
				"y": {"type": "number"}
			},
			"required": ["x", "y"],
			"additionalProperties": false
		}`, string(out))
	})

	t.Run("composite base keeps nested composites in defs", func(t *testing.T) {
		root, err := schema.GenerateType(gen, runtime.PropertyInfo{Kind: runtime.KindRect2})
		require.NoError(t, err)
		out, err := root.ToJSON()
		require.NoError(t, err)
		require.Contains(t, string(out), `"#/$defs/Vector2"`)
	})

	t.Run("scalar base wraps in a value object", func(t *testing.T) {
		root, err := schema.GenerateType(gen, runtime.PropertyInfo{Kind: runtime.KindInt})
		require.NoError(t, err)
		out, err := root.ToJSON()
		require.NoError(t, err)
		require.JSONEq(t, `{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"$defs": {},
			"type": "object",
			"properties": {"value": {"type": "integer"}},
			"required": ["value"],
			"additionalProperties": false
		}`, string(out))
	})

	t.Run("enum base is lifted out of defs", func(t *testing.T) {
		root, err := schema.GenerateType(gen, runtime.PropertyInfo{
			Kind:      runtime.KindInt,
			ClassName: "Person.Gender",
			Usage:     runtime.UsageClassIsEnum,
		})
		require.NoError(t, err)
		require.Equal(t, schema.KindEnum, root.Base.Kind())
		require.Empty(t, root.Defs.Names())
	})

	t.Run("class base", func(t *testing.T) {
		root, err := schema.GenerateType(gen, runtime.PropertyInfo{
			Kind:      runtime.KindObject,
			ClassName: "Fact",
		})
		require.NoError(t, err)
		require.Equal(t, schema.KindClass, root.Base.Kind())
	})
}

func TestArraySchema(t *testing.T) {
	host := personHost(t)
	gen := schema.NewGenerator(host)

	root, err := schema.GenerateClass(gen, runtime.NamedClass("Fact"))
	require.NoError(t, err)

	arr := root.ArraySchema("fact")
	out, err := arr.ToJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$defs": {
			"fact": {
				"type": "object",
				"properties": {
					"text": {"type": "string"},
					"confidence": {"type": "number"}
				},
				"required": ["text", "confidence"],
				"additionalProperties": false
			}
		},
		"type": "object",
		"properties": {
			"value": {"type": "array", "items": {"$ref": "#/$defs/fact"}}
		},
		"required": ["value"],
		"additionalProperties": false
	}`, string(out))

	// The original document is untouched.
	require.Empty(t, root.Defs.Names())
}

func TestExplicitDefinitionWinsOverCatalog(t *testing.T) {
	base := schema.BuildObject().
		Property("position", schema.NewComposite(schema.CompositeVector2)).
		Done()
	root := &schema.RootSchema{Defs: schema.Definitions{}, Base: base}
	root.AddDefinition("Vector2", schema.BuildEnum().Variant("Origin", 0).Done())

	out, err := root.ToJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$defs": {
			"Vector2": {"type": "string", "enum": ["Origin"]}
		},
		"type": "object",
		"properties": {
			"position": {"$ref": "#/$defs/Vector2"}
		},
		"required": ["position"],
		"additionalProperties": false
	}`, string(out))
}

func TestDescriptionSurfacesAtDocumentTop(t *testing.T) {
	base := schema.BuildObject().
		Description("a labeled point").
		Property("label", schema.String()).
		Done()
	root := &schema.RootSchema{Defs: schema.Definitions{}, Base: base}

	out, err := root.ToJSON()
	require.NoError(t, err)
	require.Contains(t, string(out), `"description":"a labeled point"`)
}

func newRecursiveHost() (runtime.Host, error) {
	return inmemory.Load([]byte(`
classes:
  - name: TreeNode
    properties:
      - {name: label, kind: String}
      - {name: left, kind: Object, class: TreeNode}
`))
}
