package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/classkit/classkit/runtime"
)

// Enum is a closed set of named variants. It serializes as a string enum
// and instantiates to the variant's declared integer value.
type Enum struct {
	desc     string
	Variants *orderedmap.OrderedMap[string, int64]
}

func NewEnum() *Enum {
	return &Enum{Variants: orderedmap.New[string, int64]()}
}

// EnumFromVariants builds an enum definition from the host's ordered
// variant list.
func EnumFromVariants(variants []runtime.EnumVariant) *Enum {
	e := NewEnum()
	for _, v := range variants {
		e.AddVariant(v.Name, v.Value)
	}
	return e
}

func (e *Enum) AddVariant(name string, value int64) {
	e.Variants.Set(name, value)
}

func (e *Enum) Kind() Kind                 { return KindEnum }
func (e *Enum) Description() string        { return e.desc }
func (e *Enum) SetDescription(desc string) { e.desc = desc }

func (e *Enum) Resolve(Definitions) (Definition, error) {
	return e, nil
}

func (e *Enum) appendComposites(*[]CompositeTag) {}

func (e *Enum) names() []string {
	names := make([]string, 0, e.Variants.Len())
	for pair := e.Variants.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (e *Enum) fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	m.Set("type", "string")
	m.Set("enum", e.names())
	return m
}

func (e *Enum) MarshalJSON() ([]byte, error) {
	return marshalDefinition(e)
}

func (e *Enum) Instantiate(value any, _ Env) (any, error) {
	name, ok := value.(string)
	if !ok {
		return nil, mismatch(KindEnum, value)
	}
	if v, ok := e.Variants.Get(name); ok {
		return v, nil
	}
	return nil, &UnknownVariantError{Got: name, Valid: e.names()}
}
