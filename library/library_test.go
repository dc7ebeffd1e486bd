package library_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classkit/classkit/library"
	"github.com/classkit/classkit/runtime"
	"github.com/classkit/classkit/runtime/inmemory"
	"github.com/classkit/classkit/schema"
)

const catalog = `
classes:
  - name: Person
    properties:
      - {name: name, kind: String}
      - {name: age, kind: int}
      - {name: gender, kind: int, class: Person.Gender, enum: true}
      - {name: position, kind: Vector2}
    enums:
      - name: Gender
        variants:
          - {name: Male, value: 0}
          - {name: Female, value: 1}
`

func newLibrary(t *testing.T) *library.Library {
	t.Helper()
	host, err := inmemory.Load([]byte(catalog))
	require.NoError(t, err)
	return library.New(host)
}

func TestClassSchemaRoundTrip(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	compiled, err := lib.ClassSchema(ctx, "Person")
	require.NoError(t, err)
	require.NotEmpty(t, compiled.Document)

	input := []byte(`{
		"name": "Ada",
		"age": 36,
		"gender": "Female",
		"position": {"x": 1, "y": 2}
	}`)

	decoded, err := compiled.Validate(input)
	require.NoError(t, err)
	require.IsType(t, map[string]any{}, decoded)

	instance, err := compiled.Instantiate(input)
	require.NoError(t, err)
	obj, ok := instance.(*inmemory.Object)
	require.True(t, ok)

	age, ok := obj.Property("age")
	require.True(t, ok)
	require.Equal(t, int64(36), age)

	position, ok := obj.Property("position")
	require.True(t, ok)
	require.Equal(t, schema.Vector2{X: 1, Y: 2}, position)
}

func TestValidateRejectsInvalidInput(t *testing.T) {
	lib := newLibrary(t)
	compiled, err := lib.ClassSchema(context.Background(), "Person")
	require.NoError(t, err)

	for _, tc := range []struct {
		name  string
		input string
	}{
		{name: "missing property", input: `{"name": "Ada"}`},
		{name: "extra property", input: `{"name": "Ada", "age": 36, "gender": "Female", "position": {"x": 1, "y": 2}, "pet": "cat"}`},
		{name: "wrong type", input: `{"name": 7, "age": 36, "gender": "Female", "position": {"x": 1, "y": 2}}`},
		{name: "unknown enum variant", input: `{"name": "Ada", "age": 36, "gender": "Other", "position": {"x": 1, "y": 2}}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compiled.Validate([]byte(tc.input))
			var ve *library.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		_, err := compiled.Validate([]byte(`{`))
		require.Error(t, err)
		var ve *library.ValidationError
		require.False(t, errors.As(err, &ve))
	})
}

func TestSchemaForCachesCompilation(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	first, err := lib.SchemaFor(ctx, runtime.NamedClass("Person"))
	require.NoError(t, err)
	second, err := lib.SchemaFor(ctx, runtime.NamedClass("Person"))
	require.NoError(t, err)
	require.Same(t, first, second)

	cached, ok := lib.Lookup("Person")
	require.True(t, ok)
	require.Same(t, first, cached)

	lib.Evict("Person")
	_, ok = lib.Lookup("Person")
	require.False(t, ok)
}

func TestSchemaForConcurrent(t *testing.T) {
	lib := newLibrary(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*library.CompiledSchema, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			compiled, err := lib.SchemaFor(ctx, runtime.NamedClass("Person"))
			if err == nil {
				results[i] = compiled
			}
		}(i)
	}
	wg.Wait()

	for _, compiled := range results {
		require.NotNil(t, compiled)
		require.Same(t, results[0], compiled)
	}
}

func TestTypeSchemaWrapsNonObjectBase(t *testing.T) {
	lib := newLibrary(t)

	compiled, err := lib.TypeSchema(context.Background(), runtime.PropertyInfo{Kind: runtime.KindInt})
	require.NoError(t, err)

	instance, err := compiled.Instantiate([]byte(`{"value": 42}`))
	require.NoError(t, err)
	require.Equal(t, int64(42), instance)

	_, err = compiled.Instantiate([]byte(`{"value": 1.5}`))
	require.Error(t, err)
}

func TestArraySchemaCompiles(t *testing.T) {
	lib := newLibrary(t)
	compiled, err := lib.ClassSchema(context.Background(), "Person")
	require.NoError(t, err)

	arr, err := compiled.ArraySchema("person")
	require.NoError(t, err)

	instance, err := arr.Instantiate([]byte(`{"value": [
		{"name": "Ada", "age": 36, "gender": "Female", "position": {"x": 1, "y": 2}}
	]}`))
	require.NoError(t, err)
	elems, ok := instance.([]any)
	require.True(t, ok)
	require.Len(t, elems, 1)
}

func TestResponseFormat(t *testing.T) {
	lib := newLibrary(t)
	compiled, err := lib.ClassSchema(context.Background(), "Person")
	require.NoError(t, err)

	format := compiled.ResponseFormat("person")
	require.Equal(t, "json_schema", format.Type)
	require.Equal(t, "person", format.JSONSchema.Name)

	out, err := json.Marshal(format)
	require.NoError(t, err)
	require.Contains(t, string(out), `"json_schema"`)
	require.Contains(t, string(out), `"$schema"`)
}

func TestYAMLDocument(t *testing.T) {
	lib := newLibrary(t)
	compiled, err := lib.ClassSchema(context.Background(), "Person")
	require.NoError(t, err)

	out, err := compiled.YAML()
	require.NoError(t, err)
	require.Contains(t, string(out), "$schema: https://json-schema.org/draft/2020-12/schema")
}
