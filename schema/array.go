package schema

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Array describes a JSON array. Items is nil for heterogeneous arrays.
type Array struct {
	desc  string
	Items Type
}

func NewArray(items Type) *Array {
	return &Array{Items: items}
}

// UntypedArray returns an array definition whose elements can be of any
// type.
func UntypedArray() *Array {
	return &Array{}
}

func (a *Array) Kind() Kind                 { return KindArray }
func (a *Array) Description() string        { return a.desc }
func (a *Array) SetDescription(desc string) { a.desc = desc }

func (a *Array) Resolve(Definitions) (Definition, error) {
	return a, nil
}

func (a *Array) appendComposites(acc *[]CompositeTag) {
	if a.Items != nil {
		a.Items.appendComposites(acc)
	}
}

func (a *Array) fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	m.Set("type", "array")
	if a.Items != nil {
		m.Set("items", a.Items)
	}
	return m
}

func (a *Array) MarshalJSON() ([]byte, error) {
	return marshalDefinition(a)
}

func (a *Array) Instantiate(value any, env Env) (any, error) {
	elems, ok := value.([]any)
	if !ok {
		return nil, mismatch(KindArray, value)
	}

	if a.Items == nil {
		return inferSequence(elems)
	}

	def, err := a.Items.Resolve(env.Defs)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(elems))
	for i, raw := range elems {
		converted, err := def.Instantiate(raw, env)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}
