package schema

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/classkit/classkit/runtime"
)

// CompositeTag identifies one entry of the built-in composite catalog: the
// fixed set of host value types that have no reflective property list and
// are decomposed through a static structural definition instead.
type CompositeTag int

const (
	CompositeVector2 CompositeTag = iota
	CompositeVector2i
	CompositeRect2
	CompositeRect2i
	CompositeVector3
	CompositeVector3i
	CompositeTransform2D
	CompositeVector4
	CompositeVector4i
	CompositePlane
	CompositeQuaternion
	CompositeAABB
	CompositeBasis
	CompositeTransform3D
	CompositeProjection
	CompositeColor
	CompositeRID
	CompositePackedByteArray
	CompositePackedInt32Array
	CompositePackedInt64Array
	CompositePackedFloat32Array
	CompositePackedFloat64Array
	CompositePackedStringArray
	CompositePackedVector2Array
	CompositePackedVector3Array
	CompositePackedColorArray
	CompositePackedVector4Array
)

var compositeNames = map[CompositeTag]string{
	CompositeVector2:            "Vector2",
	CompositeVector2i:           "Vector2i",
	CompositeRect2:              "Rect2",
	CompositeRect2i:             "Rect2i",
	CompositeVector3:            "Vector3",
	CompositeVector3i:           "Vector3i",
	CompositeTransform2D:        "Transform2D",
	CompositeVector4:            "Vector4",
	CompositeVector4i:           "Vector4i",
	CompositePlane:              "Plane",
	CompositeQuaternion:         "Quaternion",
	CompositeAABB:               "AABB",
	CompositeBasis:              "Basis",
	CompositeTransform3D:        "Transform3D",
	CompositeProjection:         "Projection",
	CompositeColor:              "Color",
	CompositeRID:                "Rid",
	CompositePackedByteArray:    "PackedByteArray",
	CompositePackedInt32Array:   "PackedInt32Array",
	CompositePackedInt64Array:   "PackedInt64Array",
	CompositePackedFloat32Array: "PackedFloat32Array",
	CompositePackedFloat64Array: "PackedFloat64Array",
	CompositePackedStringArray:  "PackedStringArray",
	CompositePackedVector2Array: "PackedVector2Array",
	CompositePackedVector3Array: "PackedVector3Array",
	CompositePackedColorArray:   "PackedColorArray",
	CompositePackedVector4Array: "PackedVector4Array",
}

var compositesByName = func() map[string]CompositeTag {
	out := make(map[string]CompositeTag, len(compositeNames))
	for tag, name := range compositeNames {
		out[name] = tag
	}
	return out
}()

// compositeKinds maps the host's coarse value kinds onto catalog entries.
var compositeKinds = map[runtime.Kind]CompositeTag{
	runtime.KindVector2:            CompositeVector2,
	runtime.KindVector2i:           CompositeVector2i,
	runtime.KindRect2:              CompositeRect2,
	runtime.KindRect2i:             CompositeRect2i,
	runtime.KindVector3:            CompositeVector3,
	runtime.KindVector3i:           CompositeVector3i,
	runtime.KindTransform2D:        CompositeTransform2D,
	runtime.KindVector4:            CompositeVector4,
	runtime.KindVector4i:           CompositeVector4i,
	runtime.KindPlane:              CompositePlane,
	runtime.KindQuaternion:         CompositeQuaternion,
	runtime.KindAABB:               CompositeAABB,
	runtime.KindBasis:              CompositeBasis,
	runtime.KindTransform3D:        CompositeTransform3D,
	runtime.KindProjection:         CompositeProjection,
	runtime.KindColor:              CompositeColor,
	runtime.KindRID:                CompositeRID,
	runtime.KindPackedByteArray:    CompositePackedByteArray,
	runtime.KindPackedInt32Array:   CompositePackedInt32Array,
	runtime.KindPackedInt64Array:   CompositePackedInt64Array,
	runtime.KindPackedFloat32Array: CompositePackedFloat32Array,
	runtime.KindPackedFloat64Array: CompositePackedFloat64Array,
	runtime.KindPackedStringArray:  CompositePackedStringArray,
	runtime.KindPackedVector2Array: CompositePackedVector2Array,
	runtime.KindPackedVector3Array: CompositePackedVector3Array,
	runtime.KindPackedColorArray:   CompositePackedColorArray,
	runtime.KindPackedVector4Array: CompositePackedVector4Array,
}

// compositeDeps lists the catalog entries each tag's structural definition
// references. The graph is fixed at design time and acyclic.
var compositeDeps = map[CompositeTag][]CompositeTag{
	CompositeRect2:              {CompositeVector2},
	CompositeRect2i:             {CompositeVector2i},
	CompositeTransform2D:        {CompositeVector2},
	CompositePlane:              {CompositeVector3},
	CompositeAABB:               {CompositeVector3},
	CompositeBasis:              {CompositeVector3},
	CompositeTransform3D:        {CompositeVector3, CompositeBasis},
	CompositeProjection:         {CompositeVector4},
	CompositePackedVector2Array: {CompositeVector2},
	CompositePackedVector3Array: {CompositeVector3},
	CompositePackedColorArray:   {CompositeColor},
	CompositePackedVector4Array: {CompositeVector4},
}

// CompositeFromName resolves a catalog entry by its canonical schema name,
// the spelling hosts use in type hint payloads.
func CompositeFromName(name string) (CompositeTag, bool) {
	tag, ok := compositesByName[name]
	return tag, ok
}

// CompositeFromKind resolves a catalog entry from a host value kind.
func CompositeFromKind(kind runtime.Kind) (CompositeTag, bool) {
	tag, ok := compositeKinds[kind]
	return tag, ok
}

// CompositeTags returns every catalog entry in declaration order.
func CompositeTags() []CompositeTag {
	tags := make([]CompositeTag, 0, len(compositeNames))
	for tag := CompositeVector2; tag <= CompositePackedVector4Array; tag++ {
		tags = append(tags, tag)
	}
	return tags
}

// Name returns the tag's canonical schema name, used as its $defs key.
func (t CompositeTag) Name() string {
	return compositeNames[t]
}

func (t CompositeTag) String() string {
	return t.Name()
}

// Dependencies returns the other catalog entries this tag's structural
// definition references.
func (t CompositeTag) Dependencies() []CompositeTag {
	return compositeDeps[t]
}

// Source returns the structural definition emitted as the tag's $defs
// entry. Nested composites appear as references so the closure walk keeps
// the emitted document self-contained.
func (t CompositeTag) Source() Definition {
	switch t {
	case CompositeVector2:
		return vectorSource(Number, "x", "y")
	case CompositeVector2i:
		return vectorSource(Integer, "x", "y")
	case CompositeVector3:
		return vectorSource(Number, "x", "y", "z")
	case CompositeVector3i:
		return vectorSource(Integer, "x", "y", "z")
	case CompositeVector4:
		return vectorSource(Number, "x", "y", "z", "w")
	case CompositeVector4i:
		return vectorSource(Integer, "x", "y", "z", "w")
	case CompositeRect2:
		return BuildObject().
			Property("position", NewComposite(CompositeVector2)).
			Property("size", NewComposite(CompositeVector2)).
			Done()
	case CompositeRect2i:
		return BuildObject().
			Property("position", NewComposite(CompositeVector2i)).
			Property("size", NewComposite(CompositeVector2i)).
			Done()
	case CompositeTransform2D:
		return BuildObject().
			Property("a", NewComposite(CompositeVector2)).
			Property("b", NewComposite(CompositeVector2)).
			Property("origin", NewComposite(CompositeVector2)).
			Done()
	case CompositePlane:
		return BuildObject().
			Property("normal", NewComposite(CompositeVector3)).
			Property("d", Number()).
			Done()
	case CompositeQuaternion:
		return vectorSource(Number, "x", "y", "z", "w")
	case CompositeAABB:
		return BuildObject().
			Property("position", NewComposite(CompositeVector3)).
			Property("size", NewComposite(CompositeVector3)).
			Done()
	case CompositeBasis:
		rows := NewTuple(
			NewComposite(CompositeVector3),
			NewComposite(CompositeVector3),
			NewComposite(CompositeVector3),
		)
		return BuildObject().Property("rows", rows).Done()
	case CompositeTransform3D:
		return BuildObject().
			Property("basis", NewComposite(CompositeBasis)).
			Property("origin", NewComposite(CompositeVector3)).
			Done()
	case CompositeProjection:
		cols := NewTuple(
			NewComposite(CompositeVector4),
			NewComposite(CompositeVector4),
			NewComposite(CompositeVector4),
			NewComposite(CompositeVector4),
		)
		return BuildObject().Property("cols", cols).Done()
	case CompositeColor:
		return vectorSource(Number, "r", "g", "b", "a")
	case CompositeRID:
		return Integer()
	case CompositePackedByteArray,
		CompositePackedInt32Array,
		CompositePackedInt64Array:
		return NewArray(Integer())
	case CompositePackedFloat32Array,
		CompositePackedFloat64Array:
		return NewArray(Number())
	case CompositePackedStringArray:
		return NewArray(String())
	case CompositePackedVector2Array:
		return NewArray(NewComposite(CompositeVector2))
	case CompositePackedVector3Array:
		return NewArray(NewComposite(CompositeVector3))
	case CompositePackedColorArray:
		return NewArray(NewComposite(CompositeColor))
	case CompositePackedVector4Array:
		return NewArray(NewComposite(CompositeVector4))
	}
	panic(fmt.Sprintf("no source definition for composite tag %d", int(t)))
}

func vectorSource(field func() *Scalar, names ...string) Definition {
	b := BuildObject()
	for _, name := range names {
		b.Property(name, field())
	}
	return b.Done()
}

// Composite is the IR node for a catalog entry. It serializes as a $ref to
// the entry's canonical name; the structural definition is emitted once,
// into $defs, by the closure walk.
type Composite struct {
	Tag CompositeTag
}

func NewComposite(tag CompositeTag) *Composite {
	return &Composite{Tag: tag}
}

func (c *Composite) Kind() Kind          { return KindComposite }
func (c *Composite) Description() string { return "" }

// Catalog entries carry no description; the call is accepted and ignored.
func (c *Composite) SetDescription(string) {}

func (c *Composite) Resolve(Definitions) (Definition, error) {
	return c, nil
}

func (c *Composite) appendComposites(acc *[]CompositeTag) {
	appendCompositeClosure(c.Tag, acc)
}

func appendCompositeClosure(tag CompositeTag, acc *[]CompositeTag) {
	*acc = append(*acc, tag)
	for _, dep := range tag.Dependencies() {
		appendCompositeClosure(dep, acc)
	}
}

func (c *Composite) fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	m.Set("$ref", "#/$defs/"+c.Tag.Name())
	return m
}

func (c *Composite) MarshalJSON() ([]byte, error) {
	return marshalDefinition(c)
}

func (c *Composite) Instantiate(value any, _ Env) (any, error) {
	return c.Tag.fromJSON(value)
}
