package schema

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Ref is a named pointer into a definitions table. It serializes as a JSON
// Schema "$ref" and resolves to the referenced definition on demand.
type Ref struct {
	Name string
	desc string
}

func NewRef(name string) *Ref {
	return &Ref{Name: name}
}

func (r *Ref) Resolve(defs Definitions) (Definition, error) {
	return defs.Resolve(r.Name)
}

func (r *Ref) SetDescription(desc string) {
	r.desc = desc
}

func (r *Ref) MarshalJSON() ([]byte, error) {
	m := orderedmap.New[string, any]()
	if r.desc != "" {
		m.Set("description", r.desc)
	}
	m.Set("$ref", "#/$defs/"+r.Name)
	return json.Marshal(m)
}

// References are cut points: the definitions they point at are walked
// through the table, not through the pointer.
func (r *Ref) appendComposites(*[]CompositeTag) {}
