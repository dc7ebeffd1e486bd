package schema

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tuple describes a fixed-length JSON array with one type per position.
type Tuple struct {
	desc  string
	Items []Type
}

func NewTuple(items ...Type) *Tuple {
	return &Tuple{Items: items}
}

func (t *Tuple) Kind() Kind                 { return KindTuple }
func (t *Tuple) Description() string        { return t.desc }
func (t *Tuple) SetDescription(desc string) { t.desc = desc }

func (t *Tuple) Resolve(Definitions) (Definition, error) {
	return t, nil
}

func (t *Tuple) appendComposites(acc *[]CompositeTag) {
	for _, item := range t.Items {
		item.appendComposites(acc)
	}
}

func (t *Tuple) fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	m.Set("type", "array")
	m.Set("prefixItems", t.Items)
	return m
}

func (t *Tuple) MarshalJSON() ([]byte, error) {
	return marshalDefinition(t)
}

func (t *Tuple) Instantiate(value any, env Env) (any, error) {
	elems, ok := value.([]any)
	if !ok {
		return nil, mismatch(KindTuple, value)
	}
	if len(elems) != len(t.Items) {
		return nil, fmt.Errorf("%w: expected %d elements, got %d",
			ErrTupleArityMismatch, len(t.Items), len(elems))
	}
	out := make([]any, len(elems))
	for i, raw := range elems {
		def, err := t.Items[i].Resolve(env.Defs)
		if err != nil {
			return nil, err
		}
		converted, err := def.Instantiate(raw, env)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = converted
	}
	return out, nil
}
