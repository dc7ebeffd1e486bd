package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Scalar is a primitive definition: null, boolean, integer, number or
// string. Scalars are always inlined, never registered in the defs table.
type Scalar struct {
	kind Kind
	desc string
}

func Null() *Scalar    { return &Scalar{kind: KindNull} }
func Boolean() *Scalar { return &Scalar{kind: KindBoolean} }
func Integer() *Scalar { return &Scalar{kind: KindInteger} }
func Number() *Scalar  { return &Scalar{kind: KindNumber} }
func String() *Scalar  { return &Scalar{kind: KindString} }

func (s *Scalar) Kind() Kind                 { return s.kind }
func (s *Scalar) Description() string        { return s.desc }
func (s *Scalar) SetDescription(desc string) { s.desc = desc }

func (s *Scalar) Resolve(Definitions) (Definition, error) {
	return s, nil
}

func (s *Scalar) appendComposites(*[]CompositeTag) {}

func (s *Scalar) fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	m.Set("type", string(s.kind))
	return m
}

func (s *Scalar) MarshalJSON() ([]byte, error) {
	return marshalDefinition(s)
}

func (s *Scalar) Instantiate(value any, _ Env) (any, error) {
	switch s.kind {
	case KindNull:
		if value == nil {
			return nil, nil
		}
	case KindBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case KindInteger:
		if n, ok := asNumber(value); ok {
			return intFromNumber(n)
		}
	case KindNumber:
		if n, ok := asNumber(value); ok {
			// Integer-typed JSON numbers normalize to floating point.
			return floatFromNumber(n)
		}
	case KindString:
		if str, ok := value.(string); ok {
			return str, nil
		}
	}
	return nil, mismatch(s.kind, value)
}
