package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classkit/classkit/runtime"
	"github.com/classkit/classkit/runtime/inmemory"
	"github.com/classkit/classkit/schema"
)

func TestScalarInstantiate(t *testing.T) {
	env := schema.Env{}

	t.Run("integer accepts whole numbers", func(t *testing.T) {
		got, err := schema.Integer().Instantiate(json.Number("42"), env)
		require.NoError(t, err)
		require.Equal(t, int64(42), got)
	})

	t.Run("integer accepts values beyond int64", func(t *testing.T) {
		got, err := schema.Integer().Instantiate(json.Number("18446744073709551615"), env)
		require.NoError(t, err)
		require.Equal(t, uint64(18446744073709551615), got)
	})

	t.Run("integer rejects fractional numbers", func(t *testing.T) {
		_, err := schema.Integer().Instantiate(json.Number("1.5"), env)
		require.ErrorIs(t, err, schema.ErrExpectedIntegerGotFloat)
	})

	t.Run("number normalizes whole numbers to float", func(t *testing.T) {
		got, err := schema.Number().Instantiate(json.Number("3"), env)
		require.NoError(t, err)
		require.Equal(t, float64(3), got)
	})

	t.Run("string rejects numbers", func(t *testing.T) {
		_, err := schema.String().Instantiate(json.Number("3"), env)
		require.ErrorIs(t, err, schema.ErrTypeMismatch)
	})

	t.Run("null", func(t *testing.T) {
		got, err := schema.Null().Instantiate(nil, env)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestEnumInstantiate(t *testing.T) {
	enum := schema.BuildEnum().
		Variant("Idle", 0).
		Variant("Running", 5).
		Done()

	got, err := enum.Instantiate("Running", schema.Env{})
	require.NoError(t, err)
	require.Equal(t, int64(5), got)

	_, err = enum.Instantiate("Sleeping", schema.Env{})
	require.ErrorIs(t, err, schema.ErrUnknownVariant)
	require.ErrorContains(t, err, "Idle")
}

func TestObjectInstantiate(t *testing.T) {
	t.Run("open dictionary infers element types", func(t *testing.T) {
		got, err := schema.NewObject().Instantiate(map[string]any{
			"count": json.Number("3"),
			"ratio": json.Number("0.5"),
			"tags":  []any{"a", "b"},
		}, schema.Env{})
		require.NoError(t, err)
		require.Equal(t, map[string]any{
			"count": int64(3),
			"ratio": 0.5,
			"tags":  []string{"a", "b"},
		}, got)
	})

	t.Run("declared object is strict", func(t *testing.T) {
		obj := schema.BuildObject().Property("name", schema.String()).Done()

		_, err := obj.Instantiate(map[string]any{}, schema.Env{})
		require.ErrorIs(t, err, schema.ErrPropertyCountMismatch)

		_, err = obj.Instantiate(map[string]any{"other": "x"}, schema.Env{})
		require.ErrorIs(t, err, schema.ErrMissingProperty)

		got, err := obj.Instantiate(map[string]any{"name": "x"}, schema.Env{})
		require.NoError(t, err)
		require.Equal(t, map[string]any{"name": "x"}, got)
	})
}

func TestArrayInstantiate(t *testing.T) {
	t.Run("typed", func(t *testing.T) {
		arr := schema.NewArray(schema.Integer())
		got, err := arr.Instantiate([]any{json.Number("1"), json.Number("2")}, schema.Env{})
		require.NoError(t, err)
		require.Equal(t, []any{int64(1), int64(2)}, got)

		_, err = arr.Instantiate([]any{json.Number("1"), "two"}, schema.Env{})
		require.ErrorIs(t, err, schema.ErrTypeMismatch)
	})

	t.Run("untyped collapses homogeneous elements", func(t *testing.T) {
		got, err := schema.UntypedArray().Instantiate([]any{json.Number("1"), json.Number("2")}, schema.Env{})
		require.NoError(t, err)
		require.Equal(t, []int64{1, 2}, got)
	})

	t.Run("untyped keeps mixed elements", func(t *testing.T) {
		got, err := schema.UntypedArray().Instantiate([]any{json.Number("1"), "two"}, schema.Env{})
		require.NoError(t, err)
		require.Equal(t, []any{int64(1), "two"}, got)
	})
}

func TestTupleInstantiate(t *testing.T) {
	tuple := schema.NewTuple(schema.Integer(), schema.String())

	got, err := tuple.Instantiate([]any{json.Number("1"), "x"}, schema.Env{})
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), "x"}, got)

	_, err = tuple.Instantiate([]any{json.Number("1")}, schema.Env{})
	require.ErrorIs(t, err, schema.ErrTupleArityMismatch)
}

func TestCompositeInstantiate(t *testing.T) {
	env := schema.Env{}

	t.Run("vector2", func(t *testing.T) {
		got, err := schema.NewComposite(schema.CompositeVector2).Instantiate(map[string]any{
			"x": json.Number("1.5"),
			"y": json.Number("2"),
		}, env)
		require.NoError(t, err)
		require.Equal(t, schema.Vector2{X: 1.5, Y: 2}, got)
	})

	t.Run("vector2i rejects fractional components", func(t *testing.T) {
		_, err := schema.NewComposite(schema.CompositeVector2i).Instantiate(map[string]any{
			"x": json.Number("1.5"),
			"y": json.Number("2"),
		}, env)
		require.ErrorIs(t, err, schema.ErrExpectedIntegerGotFloat)
	})

	t.Run("vector2i rejects out of range components", func(t *testing.T) {
		_, err := schema.NewComposite(schema.CompositeVector2i).Instantiate(map[string]any{
			"x": json.Number("2147483648"),
			"y": json.Number("0"),
		}, env)
		require.ErrorIs(t, err, schema.ErrIntegerOutOfRange)
	})

	t.Run("basis", func(t *testing.T) {
		row := func(x, y, z string) map[string]any {
			return map[string]any{"x": json.Number(x), "y": json.Number(y), "z": json.Number(z)}
		}
		got, err := schema.NewComposite(schema.CompositeBasis).Instantiate(map[string]any{
			"rows": []any{row("1", "0", "0"), row("0", "1", "0"), row("0", "0", "1")},
		}, env)
		require.NoError(t, err)
		require.Equal(t, schema.Basis{Rows: [3]schema.Vector3{
			{X: 1}, {Y: 1}, {Z: 1},
		}}, got)
	})

	t.Run("basis rejects wrong row count", func(t *testing.T) {
		_, err := schema.NewComposite(schema.CompositeBasis).Instantiate(map[string]any{
			"rows": []any{},
		}, env)
		require.ErrorIs(t, err, schema.ErrTupleArityMismatch)
	})

	t.Run("packed byte array enforces byte range", func(t *testing.T) {
		got, err := schema.NewComposite(schema.CompositePackedByteArray).Instantiate(
			[]any{json.Number("0"), json.Number("255")}, env)
		require.NoError(t, err)
		require.Equal(t, []byte{0, 255}, got)

		_, err = schema.NewComposite(schema.CompositePackedByteArray).Instantiate(
			[]any{json.Number("256")}, env)
		require.ErrorIs(t, err, schema.ErrIntegerOutOfRange)
	})

	t.Run("packed string array", func(t *testing.T) {
		got, err := schema.NewComposite(schema.CompositePackedStringArray).Instantiate(
			[]any{"sword", "shield"}, env)
		require.NoError(t, err)
		require.Equal(t, []string{"sword", "shield"}, got)

		_, err = schema.NewComposite(schema.CompositePackedStringArray).Instantiate(
			[]any{"sword", json.Number("7")}, env)
		require.ErrorIs(t, err, schema.ErrTypeMismatch)
	})

	t.Run("rid rejects negative values", func(t *testing.T) {
		got, err := schema.NewComposite(schema.CompositeRID).Instantiate(json.Number("7"), env)
		require.NoError(t, err)
		require.Equal(t, schema.RID(7), got)

		_, err = schema.NewComposite(schema.CompositeRID).Instantiate(json.Number("-1"), env)
		require.ErrorIs(t, err, schema.ErrIntegerOutOfRange)
	})

	t.Run("transform3d", func(t *testing.T) {
		vec := func(x, y, z string) map[string]any {
			return map[string]any{"x": json.Number(x), "y": json.Number(y), "z": json.Number(z)}
		}
		got, err := schema.NewComposite(schema.CompositeTransform3D).Instantiate(map[string]any{
			"basis": map[string]any{
				"rows": []any{vec("1", "0", "0"), vec("0", "1", "0"), vec("0", "0", "1")},
			},
			"origin": vec("4", "5", "6"),
		}, env)
		require.NoError(t, err)
		require.Equal(t, schema.Transform3D{
			Basis:  schema.Basis{Rows: [3]schema.Vector3{{X: 1}, {Y: 1}, {Z: 1}}},
			Origin: schema.Vector3{X: 4, Y: 5, Z: 6},
		}, got)
	})
}

func TestClassInstantiate(t *testing.T) {
	host := personHost(t)
	gen := schema.NewGenerator(host)

	defs := schema.Definitions{}
	ref, err := gen.Class(runtime.NamedClass("Person"), defs)
	require.NoError(t, err)
	person, err := ref.Resolve(defs)
	require.NoError(t, err)

	env := schema.Env{Defs: defs, Host: host}
	input := map[string]any{
		"name":   "Ada",
		"age":    json.Number("36"),
		"gender": "Female",
		"facts": []any{
			map[string]any{"text": "wrote the first program", "confidence": json.Number("0.99")},
		},
		"position": map[string]any{"x": json.Number("1"), "y": json.Number("2")},
	}

	got, err := person.Instantiate(input, env)
	require.NoError(t, err)
	obj, ok := got.(*inmemory.Object)
	require.True(t, ok)

	name, ok := obj.Property("name")
	require.True(t, ok)
	require.Equal(t, "Ada", name)

	gender, ok := obj.Property("gender")
	require.True(t, ok)
	require.Equal(t, int64(1), gender)

	position, ok := obj.Property("position")
	require.True(t, ok)
	require.Equal(t, schema.Vector2{X: 1, Y: 2}, position)

	facts, ok := obj.Property("facts")
	require.True(t, ok)
	elems, ok := facts.([]any)
	require.True(t, ok)
	require.Len(t, elems, 1)
	fact, ok := elems[0].(*inmemory.Object)
	require.True(t, ok)
	confidence, ok := fact.Property("confidence")
	require.True(t, ok)
	require.Equal(t, 0.99, confidence)

	t.Run("missing property", func(t *testing.T) {
		partial := map[string]any{"name": "Ada"}
		_, err := person.Instantiate(partial, env)
		require.ErrorIs(t, err, schema.ErrMissingProperty)
	})

	t.Run("unknown property", func(t *testing.T) {
		extra := map[string]any{}
		for k, v := range input {
			extra[k] = v
		}
		extra["nickname"] = "Countess"
		_, err := person.Instantiate(extra, env)
		require.ErrorIs(t, err, schema.ErrUnknownProperty)
	})
}

func TestRefInstantiateThroughDefs(t *testing.T) {
	defs := schema.Definitions{}
	ref := defs.Register("Status", schema.BuildEnum().Variant("On", 1).Done())

	def, err := ref.Resolve(defs)
	require.NoError(t, err)
	got, err := def.Instantiate("On", schema.Env{Defs: defs})
	require.NoError(t, err)
	require.Equal(t, int64(1), got)

	dangling := schema.NewRef("Missing")
	_, err = dangling.Resolve(defs)
	require.ErrorIs(t, err, schema.ErrDanglingReference)
}
