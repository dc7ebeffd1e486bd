// Package schema holds the schema intermediate representation and the two
// compiler passes built on it: generation, which walks a class's reflective
// property list into a closed, reference-based schema graph, and
// instantiation, which walks a JSON value against the same graph to rebuild
// a native value.
package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/classkit/classkit/runtime"
)

// Kind discriminates the schema node variants.
type Kind string

const (
	KindNull      Kind = "null"
	KindBoolean   Kind = "boolean"
	KindInteger   Kind = "integer"
	KindNumber    Kind = "number"
	KindString    Kind = "string"
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindTuple     Kind = "tuple"
	KindEnum      Kind = "enum"
	KindClass     Kind = "class"
	KindComposite Kind = "composite"
)

// Type is either an inline Definition or a named Ref into a definitions
// table. References are what keep recursive class graphs finite: a cycle is
// cut by registering the class once and pointing at it.
type Type interface {
	json.Marshaler

	// Resolve returns the underlying Definition, following a Ref through
	// defs. A dangling reference is an error, never a panic.
	Resolve(defs Definitions) (Definition, error)

	// appendComposites collects every built-in composite type reachable
	// from this node, including catalog-declared dependencies.
	appendComposites(acc *[]CompositeTag)
}

// Definition is one node of the schema IR describing a JSON shape. The set
// of implementations is closed; each carries both compiler passes, so adding
// a kind is a compile-time obligation to implement serialization and
// instantiation.
type Definition interface {
	Type

	Kind() Kind
	Description() string
	SetDescription(desc string)

	// Instantiate converts a decoded JSON value into a native value. Numeric
	// conversion is strict: floats never silently truncate into integer
	// slots and out-of-range integers fail.
	Instantiate(value any, env Env) (any, error)

	// fields returns the node's serialized fields, excluding description.
	fields() *orderedmap.OrderedMap[string, any]
}

// Env carries the collaborators the instantiation pass needs: the schema's
// definitions table and the host that constructs class instances.
type Env struct {
	Defs Definitions
	Host runtime.Host
}

// Definitions maps stable names to definitions. It backs Ref resolution,
// breaks cycles and deduplicates shared class, enum and composite
// definitions. Keys are canonical: class identity, "Class.Enum" paths, or
// composite catalog names.
type Definitions map[string]Definition

// Register inserts def under name and returns a Ref pointing at it.
// Registration is idempotent; revisiting a name on diamond or cycle paths
// overwrites with an equivalent definition.
func (d Definitions) Register(name string, def Definition) *Ref {
	d[name] = def
	return NewRef(name)
}

func (d Definitions) Resolve(name string) (Definition, error) {
	def, ok := d[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not in the definitions table", ErrDanglingReference, name)
	}
	return def, nil
}

// Names returns the table's keys sorted for reproducible serialization.
func (d Definitions) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (d Definitions) Clone() Definitions {
	return maps.Clone(d)
}

// marshalDefinition serializes a definition as its optional description
// followed by its kind-specific fields, preserving field order.
func marshalDefinition(def Definition) ([]byte, error) {
	m := orderedmap.New[string, any]()
	if desc := def.Description(); desc != "" {
		m.Set("description", desc)
	}
	for pair := def.fields().Oldest(); pair != nil; pair = pair.Next() {
		m.Set(pair.Key, pair.Value)
	}
	return json.Marshal(m)
}

func propertyNames(props *orderedmap.OrderedMap[string, Type]) []string {
	names := make([]string, 0, props.Len())
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}
