// Package inmemory provides a runtime.Host backed by a declarative class
// catalog instead of a live object runtime. It serves tests and the CLI,
// where classes come from YAML documents rather than engine reflection.
package inmemory

import (
	"encoding/json"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/classkit/classkit/runtime"
)

// Document is the root of a class catalog.
type Document struct {
	Classes []Class `json:"classes"`
}

// Class declares one reflectable class. Name and Path mirror
// runtime.ClassSource: a class carries a global name, a script path, or
// both.
type Class struct {
	Name       string     `json:"name,omitempty"`
	Path       string     `json:"path,omitempty"`
	Properties []Property `json:"properties,omitempty"`
	Enums      []Enum     `json:"enums,omitempty"`
}

// Property declares one property. Kind uses the host spellings accepted by
// runtime.ParseKind. Class carries a nested class name for object
// properties, or a "Class.Enum" path when Enum is set. Elem types the
// elements of an array property.
type Property struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Class string `json:"class,omitempty"`
	Elem  string `json:"elem,omitempty"`
	Enum  bool   `json:"enum,omitempty"`
}

// Enum declares a named enum with ordered variants.
type Enum struct {
	Name     string                `json:"name"`
	Variants []runtime.EnumVariant `json:"variants"`
}

type classEntry struct {
	source     runtime.ClassSource
	properties []runtime.PropertyInfo
	enums      map[string][]runtime.EnumVariant
}

// Host is an immutable, concurrency-safe catalog of classes.
type Host struct {
	byID   map[string]*classEntry
	byName map[string]*classEntry
}

var _ runtime.Host = (*Host)(nil)

// Load parses a YAML (or JSON) catalog document into a Host.
func Load(data []byte) (*Host, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing class catalog: %w", err)
	}
	return NewHost(doc)
}

// NewHost compiles a catalog document, resolving every property kind up
// front so malformed declarations fail at load time, not at generation time.
func NewHost(doc Document) (*Host, error) {
	h := &Host{
		byID:   make(map[string]*classEntry, len(doc.Classes)),
		byName: make(map[string]*classEntry, len(doc.Classes)),
	}
	for _, class := range doc.Classes {
		entry, err := compileClass(class)
		if err != nil {
			return nil, err
		}
		id := entry.source.ID()
		if _, ok := h.byID[id]; ok {
			return nil, fmt.Errorf("class %q declared twice", id)
		}
		h.byID[id] = entry
		if class.Name != "" {
			h.byName[class.Name] = entry
		}
	}
	return h, nil
}

func compileClass(class Class) (*classEntry, error) {
	source := runtime.ClassSource{Name: class.Name, Path: class.Path}
	if source.IsZero() {
		return nil, fmt.Errorf("class declaration needs a name or a path")
	}

	entry := &classEntry{
		source: source,
		enums:  make(map[string][]runtime.EnumVariant, len(class.Enums)),
	}
	for _, p := range class.Properties {
		info, err := compileProperty(source, p)
		if err != nil {
			return nil, err
		}
		entry.properties = append(entry.properties, info)
	}
	for _, e := range class.Enums {
		if _, ok := entry.enums[e.Name]; ok {
			return nil, fmt.Errorf("class %s: enum %q declared twice", source, e.Name)
		}
		entry.enums[e.Name] = e.Variants
	}
	return entry, nil
}

func compileProperty(source runtime.ClassSource, p Property) (runtime.PropertyInfo, error) {
	kind, err := runtime.ParseKind(p.Kind)
	if err != nil {
		return runtime.PropertyInfo{}, fmt.Errorf("class %s, property %q: %w", source, p.Name, err)
	}

	info := runtime.PropertyInfo{
		Name:      p.Name,
		Kind:      kind,
		ClassName: p.Class,
	}
	if p.Enum {
		if kind != runtime.KindInt {
			return info, fmt.Errorf("class %s, property %q: enum properties must have kind int", source, p.Name)
		}
		if !strings.Contains(p.Class, ".") {
			return info, fmt.Errorf("class %s, property %q: enum class must be a Class.Enum path", source, p.Name)
		}
		info.Usage |= runtime.UsageClassIsEnum
	}
	if p.Elem != "" {
		if kind != runtime.KindArray {
			return info, fmt.Errorf("class %s, property %q: elem is only valid on array properties", source, p.Name)
		}
		info.Hint = runtime.HintArrayType
		info.HintString = p.Elem
	}
	return info, nil
}

func (h *Host) LookupClass(name string) (runtime.ClassSource, error) {
	if entry, ok := h.byName[name]; ok {
		return entry.source, nil
	}
	// Unnamed script classes are addressable by path.
	if entry, ok := h.byID[name]; ok {
		return entry.source, nil
	}
	return runtime.ClassSource{}, fmt.Errorf("class %q is not in the catalog", name)
}

func (h *Host) entry(source runtime.ClassSource) (*classEntry, error) {
	if entry, ok := h.byID[source.ID()]; ok {
		return entry, nil
	}
	return nil, fmt.Errorf("class %s is not in the catalog", source)
}

func (h *Host) Properties(source runtime.ClassSource) ([]runtime.PropertyInfo, error) {
	entry, err := h.entry(source)
	if err != nil {
		return nil, err
	}
	return entry.properties, nil
}

func (h *Host) EnumVariants(source runtime.ClassSource, enumName string) ([]runtime.EnumVariant, error) {
	entry, err := h.entry(source)
	if err != nil {
		return nil, err
	}
	variants, ok := entry.enums[enumName]
	if !ok {
		return nil, fmt.Errorf("class %s has no enum %q", source, enumName)
	}
	return variants, nil
}

// New constructs a blank object of the class with every declared property
// unset.
func (h *Host) New(source runtime.ClassSource) (runtime.Instance, error) {
	entry, err := h.entry(source)
	if err != nil {
		return nil, err
	}
	return &Object{
		class:  entry,
		values: make(map[string]any, len(entry.properties)),
	}, nil
}

// Object is an instance of a catalog class. Assignment is strict: only
// declared properties can be set.
type Object struct {
	class  *classEntry
	values map[string]any
}

var _ runtime.Instance = (*Object)(nil)

// Class returns the source identity of the object's class.
func (o *Object) Class() runtime.ClassSource {
	return o.class.source
}

func (o *Object) SetProperty(name string, value any) error {
	for _, p := range o.class.properties {
		if p.Name == name {
			o.values[name] = value
			return nil
		}
	}
	return fmt.Errorf("class %s has no property %q", o.class.source, name)
}

// Property returns a property's current value.
func (o *Object) Property(name string) (any, bool) {
	value, ok := o.values[name]
	return value, ok
}

func (o *Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.values)
}
