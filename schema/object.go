package schema

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object describes a JSON object. An Object with no declared properties is
// an open dictionary: any keys, values converted by JSON kind. With declared
// properties every property is required and no extra keys are permitted.
type Object struct {
	desc       string
	Properties *orderedmap.OrderedMap[string, Type]
}

// NewObject returns an empty object definition, which doubles as the open
// dictionary type.
func NewObject() *Object {
	return &Object{Properties: orderedmap.New[string, Type]()}
}

func (o *Object) AddProperty(name string, ty Type) {
	o.Properties.Set(name, ty)
}

func (o *Object) Kind() Kind                 { return KindObject }
func (o *Object) Description() string        { return o.desc }
func (o *Object) SetDescription(desc string) { o.desc = desc }

func (o *Object) Resolve(Definitions) (Definition, error) {
	return o, nil
}

func (o *Object) appendComposites(acc *[]CompositeTag) {
	for pair := o.Properties.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.appendComposites(acc)
	}
}

func (o *Object) fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	m.Set("type", "object")
	if o.Properties.Len() > 0 {
		m.Set("properties", o.Properties)
		m.Set("required", propertyNames(o.Properties))
		m.Set("additionalProperties", false)
	}
	return m
}

func (o *Object) MarshalJSON() ([]byte, error) {
	return marshalDefinition(o)
}

func (o *Object) Instantiate(value any, env Env) (any, error) {
	props, ok := value.(map[string]any)
	if !ok {
		return nil, mismatch(KindObject, value)
	}

	// No declared properties: open dictionary, untyped passthrough.
	if o.Properties.Len() == 0 {
		return InferNative(value)
	}

	if len(props) != o.Properties.Len() {
		return nil, fmt.Errorf("%w: expected %d properties, got %d",
			ErrPropertyCountMismatch, o.Properties.Len(), len(props))
	}

	out := make(map[string]any, len(props))
	for pair := o.Properties.Oldest(); pair != nil; pair = pair.Next() {
		raw, ok := props[pair.Key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingProperty, pair.Key)
		}
		def, err := pair.Value.Resolve(env.Defs)
		if err != nil {
			return nil, err
		}
		converted, err := def.Instantiate(raw, env)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", pair.Key, err)
		}
		out[pair.Key] = converted
	}
	return out, nil
}
