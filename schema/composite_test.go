package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classkit/classkit/runtime"
	"github.com/classkit/classkit/schema"
)

func TestCompositeCatalogNames(t *testing.T) {
	tag, ok := schema.CompositeFromName("Vector2")
	require.True(t, ok)
	require.Equal(t, schema.CompositeVector2, tag)

	// The catalog spelling differs from the property-kind spelling here.
	tag, ok = schema.CompositeFromName("Rid")
	require.True(t, ok)
	require.Equal(t, schema.CompositeRID, tag)
	_, ok = schema.CompositeFromName("RID")
	require.False(t, ok)

	tag, ok = schema.CompositeFromKind(runtime.KindRID)
	require.True(t, ok)
	require.Equal(t, schema.CompositeRID, tag)

	_, ok = schema.CompositeFromName("Object")
	require.False(t, ok)
}

func TestCompositeCatalogIsComplete(t *testing.T) {
	tags := schema.CompositeTags()
	require.Len(t, tags, 27)
	for _, tag := range tags {
		require.NotEmpty(t, tag.Name())
		require.NotNil(t, tag.Source(), tag.Name())
	}
}

func TestCompositeDependencies(t *testing.T) {
	require.ElementsMatch(t,
		[]schema.CompositeTag{schema.CompositeVector3, schema.CompositeBasis},
		schema.CompositeTransform3D.Dependencies())
	require.Empty(t, schema.CompositeQuaternion.Dependencies())

	// The dependency graph must be acyclic: a depth-first walk from every
	// entry terminates without revisiting the path.
	var walk func(tag schema.CompositeTag, path map[schema.CompositeTag]bool)
	walk = func(tag schema.CompositeTag, path map[schema.CompositeTag]bool) {
		require.False(t, path[tag], "cycle through %s", tag)
		path[tag] = true
		for _, dep := range tag.Dependencies() {
			walk(dep, path)
		}
		delete(path, tag)
	}
	for _, tag := range schema.CompositeTags() {
		walk(tag, map[schema.CompositeTag]bool{})
	}
}

func TestCompositeSourceShapes(t *testing.T) {
	t.Run("color", func(t *testing.T) {
		out, err := json.Marshal(schema.CompositeColor.Source())
		require.NoError(t, err)
		require.JSONEq(t, `{
			"type": "object",
			"properties": {
				"r": {"type": "number"},
				"g": {"type": "number"},
				"b": {"type": "number"},
				"a": {"type": "number"}
			},
			"required": ["r", "g", "b", "a"],
			"additionalProperties": false
		}`, string(out))
	})

	t.Run("basis uses a fixed-size row tuple", func(t *testing.T) {
		out, err := json.Marshal(schema.CompositeBasis.Source())
		require.NoError(t, err)
		require.Contains(t, string(out), `"prefixItems"`)
		require.Contains(t, string(out), `"#/$defs/Vector3"`)
	})

	t.Run("rid is an integer", func(t *testing.T) {
		out, err := json.Marshal(schema.CompositeRID.Source())
		require.NoError(t, err)
		require.JSONEq(t, `{"type": "integer"}`, string(out))
	})

	t.Run("packed string array", func(t *testing.T) {
		out, err := json.Marshal(schema.CompositePackedStringArray.Source())
		require.NoError(t, err)
		require.JSONEq(t, `{"type": "array", "items": {"type": "string"}}`, string(out))
	})
}

func TestCompositeMarshalsAsReference(t *testing.T) {
	out, err := json.Marshal(schema.NewComposite(schema.CompositeAABB))
	require.NoError(t, err)
	require.JSONEq(t, `{"$ref": "#/$defs/AABB"}`, string(out))
}
