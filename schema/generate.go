package schema

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/classkit/classkit/runtime"
)

// Generator walks reflective property lists into schema definitions. A
// generator is stateless between calls; all accumulated state lives in the
// Definitions table the caller passes in, so one table can host the closure
// of many classes.
type Generator struct {
	host    runtime.Host
	exclude []glob.Glob
	err     error
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithExcludedProperties skips properties whose names match any of the glob
// patterns. Hosts surface bookkeeping properties (scripts, resource paths)
// in the same reflective list as data properties; exclusion patterns keep
// them out of generated schemas. An invalid pattern surfaces as an error on
// the generator's first use.
func WithExcludedProperties(patterns ...string) GeneratorOption {
	return func(g *Generator) {
		for _, pattern := range patterns {
			compiled, err := glob.Compile(pattern)
			if err != nil {
				g.err = fmt.Errorf("invalid excluded-property pattern %q: %w", pattern, err)
				return
			}
			g.exclude = append(g.exclude, compiled)
		}
	}
}

func NewGenerator(host runtime.Host, opts ...GeneratorOption) *Generator {
	g := &Generator{host: host}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) excluded(name string) bool {
	for _, pattern := range g.exclude {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}

// Class generates the definition of source and everything it references into
// defs, returning a reference to the class's own entry.
func (g *Generator) Class(source runtime.ClassSource, defs Definitions) (*Ref, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.registerClass(source, defs)
}

// registerClass resolves a class into defs. The entry is registered before
// its properties are walked so self-referential and mutually recursive
// classes terminate: a revisit finds the entry already present and returns a
// reference instead of recursing.
func (g *Generator) registerClass(source runtime.ClassSource, defs Definitions) (*Ref, error) {
	name := source.ID()
	if _, ok := defs[name]; ok {
		return NewRef(name), nil
	}

	class := NewClass(source)
	ref := defs.Register(name, class)

	properties, err := g.host.Properties(source)
	if err != nil {
		delete(defs, name)
		return nil, fmt.Errorf("%w: listing properties of %s: %v", ErrHost, source, err)
	}

	for _, p := range properties {
		if g.excluded(p.Name) {
			continue
		}
		ty, err := g.ResolveProperty(p, defs)
		if err != nil {
			delete(defs, name)
			return nil, fmt.Errorf("property %q of %s: %w", p.Name, source, err)
		}
		class.AddProperty(p.Name, ty)
	}
	return ref, nil
}

// registerClassByName resolves a class name through the host first, so
// script classes reached by name land in defs under their canonical source
// identity.
func (g *Generator) registerClassByName(name string, defs Definitions) (*Ref, error) {
	source, err := g.host.LookupClass(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrClassNotFound, name, err)
	}
	return g.registerClass(source, defs)
}

// ResolveProperty decodes one reflective property descriptor into a schema
// type, registering any named definitions it depends on into defs.
func (g *Generator) ResolveProperty(p runtime.PropertyInfo, defs Definitions) (Type, error) {
	if g.err != nil {
		return nil, g.err
	}
	switch {
	case p.Kind == runtime.KindInt && p.Usage.Has(runtime.UsageClassIsEnum):
		return g.registerEnum(p.ClassName, defs)
	case p.Kind == runtime.KindObject:
		return g.registerClassByName(p.ClassName, defs)
	case p.Kind == runtime.KindArray && p.Hint == runtime.HintArrayType:
		item, err := g.resolveHint(p.HintString, defs)
		if err != nil {
			return nil, err
		}
		return NewArray(item), nil
	case p.Kind == runtime.KindArray:
		return UntypedArray(), nil
	}
	if def, ok := definitionForKind(p.Kind); ok {
		return def, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, p.Kind)
}

// resolveHint decodes a textual type hint with no kind to anchor it, trying
// each namespace a hint can live in: built-in composites, primitive
// spellings, class names and enum paths, in that order. Class lookup runs
// before enum-path parsing because unnamed class identities are script paths
// and may contain dots. An empty hint is the host's encoding of an untyped
// slot.
func (g *Generator) resolveHint(hint string, defs Definitions) (Type, error) {
	if hint == "" {
		return Null(), nil
	}
	if tag, ok := CompositeFromName(hint); ok {
		return NewComposite(tag), nil
	}
	if def, ok := definitionForSpelling(hint); ok {
		return def, nil
	}
	if _, err := g.host.LookupClass(hint); err == nil {
		return g.registerClassByName(hint, defs)
	}
	if strings.Contains(hint, ".") {
		return g.registerEnum(hint, defs)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedHint, hint)
}

// registerEnum resolves a "Class.Enum" path into defs under the full path,
// so distinct enums with the same short name never collide.
func (g *Generator) registerEnum(path string, defs Definitions) (*Ref, error) {
	if _, ok := defs[path]; ok {
		return NewRef(path), nil
	}

	segments := strings.Split(path, ".")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return nil, fmt.Errorf("%w: %q is not of the form Class.Enum", ErrEnumPathMalformed, path)
	}
	className, enumName := segments[0], segments[1]

	source, err := g.host.LookupClass(className)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (resolving enum %q): %v", ErrClassNotFound, className, path, err)
	}
	variants, err := g.host.EnumVariants(source, enumName)
	if err != nil {
		return nil, fmt.Errorf("%w: listing variants of %q: %v", ErrHost, path, err)
	}
	return defs.Register(path, EnumFromVariants(variants)), nil
}

// definitionForKind maps a self-describing property kind to its definition.
// Kinds that need a side channel (objects, enums, typed arrays) are handled
// before this table is consulted.
func definitionForKind(kind runtime.Kind) (Definition, bool) {
	switch kind {
	case runtime.KindNil:
		return Null(), true
	case runtime.KindBool:
		return Boolean(), true
	case runtime.KindInt:
		return Integer(), true
	case runtime.KindFloat:
		return Number(), true
	case runtime.KindString:
		return String(), true
	case runtime.KindDictionary:
		return NewObject(), true
	}
	if tag, ok := CompositeFromKind(kind); ok {
		return NewComposite(tag), true
	}
	return nil, false
}

// definitionForSpelling maps primitive type spellings that appear in hint
// strings and class catalogs.
func definitionForSpelling(name string) (Definition, bool) {
	switch name {
	case "bool":
		return Boolean(), true
	case "int":
		return Integer(), true
	case "float":
		return Number(), true
	case "String":
		return String(), true
	case "Dictionary":
		return NewObject(), true
	}
	return nil, false
}
