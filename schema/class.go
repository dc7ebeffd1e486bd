package schema

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/classkit/classkit/runtime"
)

// Class is an object definition whose shape comes from a reflective class
// and whose instantiation constructs a host object. It serializes with the
// same shape as Object: all properties required, no additional properties.
type Class struct {
	desc       string
	Source     runtime.ClassSource
	Properties *orderedmap.OrderedMap[string, Type]
}

func NewClass(source runtime.ClassSource) *Class {
	return &Class{
		Source:     source,
		Properties: orderedmap.New[string, Type](),
	}
}

func (c *Class) AddProperty(name string, ty Type) {
	c.Properties.Set(name, ty)
}

func (c *Class) Kind() Kind                 { return KindClass }
func (c *Class) Description() string        { return c.desc }
func (c *Class) SetDescription(desc string) { c.desc = desc }

func (c *Class) Resolve(Definitions) (Definition, error) {
	return c, nil
}

func (c *Class) appendComposites(acc *[]CompositeTag) {
	for pair := c.Properties.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.appendComposites(acc)
	}
}

func (c *Class) fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	m.Set("type", "object")
	m.Set("properties", c.Properties)
	m.Set("required", propertyNames(c.Properties))
	m.Set("additionalProperties", false)
	return m
}

func (c *Class) MarshalJSON() ([]byte, error) {
	return marshalDefinition(c)
}

// Instantiate constructs a host instance and assigns every declared
// property from the JSON object. The property set is strict in both
// directions: missing declared keys and undeclared extra keys both fail.
func (c *Class) Instantiate(value any, env Env) (any, error) {
	props, ok := value.(map[string]any)
	if !ok {
		return nil, mismatch(KindClass, value)
	}

	for pair := c.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := props[pair.Key]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingProperty, pair.Key)
		}
	}
	for key := range props {
		if _, ok := c.Properties.Get(key); !ok {
			return nil, fmt.Errorf("%w: %q is not declared on %s", ErrUnknownProperty, key, c.Source)
		}
	}

	instance, err := env.Host.New(c.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: constructing %s: %v", ErrHost, c.Source, err)
	}

	for pair := c.Properties.Oldest(); pair != nil; pair = pair.Next() {
		def, err := pair.Value.Resolve(env.Defs)
		if err != nil {
			return nil, err
		}
		converted, err := def.Instantiate(props[pair.Key], env)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", pair.Key, err)
		}
		if err := instance.SetProperty(pair.Key, converted); err != nil {
			return nil, fmt.Errorf("%w: assigning %q on %s: %v", ErrHost, pair.Key, c.Source, err)
		}
	}
	return instance, nil
}
