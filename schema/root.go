package schema

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/classkit/classkit/runtime"
)

// SchemaDialect is the JSON Schema dialect every generated document declares.
const SchemaDialect = "https://json-schema.org/draft/2020-12/schema"

// RootSchema is a complete, self-contained schema document: a base
// definition inlined at the top level plus the definitions table holding
// everything the base references. Serialization closes the document over the
// built-in composite catalog, so every "$ref" in the output resolves within
// the document itself.
type RootSchema struct {
	Defs Definitions
	Base Definition
}

// GenerateClass generates the schema document of a class: the class's own
// definition becomes the base and its referenced classes, enums and
// composites land in the definitions table.
func GenerateClass(g *Generator, source runtime.ClassSource) (*RootSchema, error) {
	defs := Definitions{}
	ref, err := g.Class(source, defs)
	if err != nil {
		return nil, err
	}
	base, err := promoteBase(ref, defs)
	if err != nil {
		return nil, err
	}
	return &RootSchema{Defs: defs, Base: base}, nil
}

// GenerateType generates the schema document of a single property
// descriptor, covering any type a property can have, not just classes.
func GenerateType(g *Generator, p runtime.PropertyInfo) (*RootSchema, error) {
	defs := Definitions{}
	ty, err := g.ResolveProperty(p, defs)
	if err != nil {
		return nil, err
	}

	var base Definition
	switch t := ty.(type) {
	case *Composite:
		// The composite's structural definition is the base; its nested
		// composites stay as references into the catalog closure.
		base = t.Tag.Source()
	case *Ref:
		if base, err = promoteBase(t, defs); err != nil {
			return nil, err
		}
	case Definition:
		base = t
	default:
		return nil, fmt.Errorf("%w: cannot build a document from %T", ErrTypeMismatch, ty)
	}
	return &RootSchema{Defs: defs, Base: base}, nil
}

// promoteBase lifts the referenced definition out of the table and into the
// document's top level. The entry stays registered only when another
// definition (or the base itself) still references it, which keeps
// self-referential classes resolvable.
func promoteBase(ref *Ref, defs Definitions) (Definition, error) {
	base, err := ref.Resolve(defs)
	if err != nil {
		return nil, err
	}
	delete(defs, ref.Name)
	if referencesName(base, ref.Name) {
		defs[ref.Name] = base
		return base, nil
	}
	for _, def := range defs {
		if referencesName(def, ref.Name) {
			defs[ref.Name] = base
			break
		}
	}
	return base, nil
}

// referencesName reports whether any "$ref" reachable from ty without
// passing through another reference points at name.
func referencesName(ty Type, name string) bool {
	switch t := ty.(type) {
	case *Ref:
		return t.Name == name
	case *Array:
		return t.Items != nil && referencesName(t.Items, name)
	case *Tuple:
		for _, item := range t.Items {
			if referencesName(item, name) {
				return true
			}
		}
	case *Object:
		for pair := t.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if referencesName(pair.Value, name) {
				return true
			}
		}
	case *Class:
		for pair := t.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if referencesName(pair.Value, name) {
				return true
			}
		}
	}
	return false
}

// AddDefinition registers an extra named definition in the document.
func (r *RootSchema) AddDefinition(name string, def Definition) {
	r.Defs.Register(name, def)
}

// AddClass registers a class definition under its source identity.
func (r *RootSchema) AddClass(class *Class) {
	r.AddDefinition(class.Source.ID(), class)
}

// ArraySchema returns a new document describing an array of this document's
// base type. The base moves into the definitions table under itemName and
// the new base is an array of references to it.
func (r *RootSchema) ArraySchema(itemName string) *RootSchema {
	defs := r.Defs.Clone()
	ref := defs.Register(itemName, r.Base)
	return &RootSchema{Defs: defs, Base: NewArray(ref)}
}

// Instantiate rebuilds a native value from a decoded JSON value that has
// already been validated against this document.
func (r *RootSchema) Instantiate(host runtime.Host, value any) (any, error) {
	return r.Base.Instantiate(value, Env{Defs: r.Defs, Host: host})
}

// compositeClosure returns the composite catalog entries referenced anywhere
// in the document that do not collide with an explicitly registered name, in
// first-seen order and deduplicated. Explicit entries win collisions so a
// class deliberately registered under a catalog name is not shadowed.
func (r *RootSchema) compositeClosure() []CompositeTag {
	var reached []CompositeTag
	r.Base.appendComposites(&reached)
	for _, name := range r.Defs.Names() {
		r.Defs[name].appendComposites(&reached)
	}

	seen := make(map[CompositeTag]bool, len(reached))
	tags := make([]CompositeTag, 0, len(reached))
	for _, tag := range reached {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		if _, ok := r.Defs[tag.Name()]; ok {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func (r *RootSchema) MarshalJSON() ([]byte, error) {
	doc := orderedmap.New[string, any]()
	if desc := r.Base.Description(); desc != "" {
		doc.Set("description", desc)
	}
	doc.Set("$schema", SchemaDialect)

	allDefs := orderedmap.New[string, any]()
	for _, name := range r.Defs.Names() {
		allDefs.Set(name, r.Defs[name])
	}
	for _, tag := range r.compositeClosure() {
		allDefs.Set(tag.Name(), tag.Source())
	}
	doc.Set("$defs", allDefs)

	// The base definition's fields merge into the document's top level. A
	// base that is not an object shape is wrapped in a synthetic object with
	// a single "value" property, because the consuming structured-output
	// APIs require an object root.
	base := r.Base
	switch base.Kind() {
	case KindClass, KindObject:
	default:
		base = BuildObject().Property("value", r.Base).Done()
	}
	for pair := base.fields().Oldest(); pair != nil; pair = pair.Next() {
		doc.Set(pair.Key, pair.Value)
	}

	return json.Marshal(doc)
}

// ToJSON serializes the document compactly.
func (r *RootSchema) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ToJSONIndent serializes the document with indentation for human readers.
func (r *RootSchema) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
