package runtime

import "fmt"

// Kind is the coarse value kind a host reflection model assigns to a
// property. The same kind is deliberately overloaded: KindInt may describe
// an enum, KindObject carries the class name in PropertyInfo.ClassName, and
// KindArray may carry an element hint.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindVector2
	KindVector2i
	KindRect2
	KindRect2i
	KindVector3
	KindVector3i
	KindTransform2D
	KindVector4
	KindVector4i
	KindPlane
	KindQuaternion
	KindAABB
	KindBasis
	KindTransform3D
	KindProjection
	KindColor
	KindRID
	KindObject
	KindDictionary
	KindArray
	KindPackedByteArray
	KindPackedInt32Array
	KindPackedInt64Array
	KindPackedFloat32Array
	KindPackedFloat64Array
	KindPackedStringArray
	KindPackedVector2Array
	KindPackedVector3Array
	KindPackedColorArray
	KindPackedVector4Array
)

// kindNames uses the spellings hosts emit in type hint payloads, so the
// same table serves Kind.String, ParseKind and hint decoding.
var kindNames = map[Kind]string{
	KindNil:                "Nil",
	KindBool:               "bool",
	KindInt:                "int",
	KindFloat:              "float",
	KindString:             "String",
	KindVector2:            "Vector2",
	KindVector2i:           "Vector2i",
	KindRect2:              "Rect2",
	KindRect2i:             "Rect2i",
	KindVector3:            "Vector3",
	KindVector3i:           "Vector3i",
	KindTransform2D:        "Transform2D",
	KindVector4:            "Vector4",
	KindVector4i:           "Vector4i",
	KindPlane:              "Plane",
	KindQuaternion:         "Quaternion",
	KindAABB:               "AABB",
	KindBasis:              "Basis",
	KindTransform3D:        "Transform3D",
	KindProjection:         "Projection",
	KindColor:              "Color",
	KindRID:                "RID",
	KindObject:             "Object",
	KindDictionary:         "Dictionary",
	KindArray:              "Array",
	KindPackedByteArray:    "PackedByteArray",
	KindPackedInt32Array:   "PackedInt32Array",
	KindPackedInt64Array:   "PackedInt64Array",
	KindPackedFloat32Array: "PackedFloat32Array",
	KindPackedFloat64Array: "PackedFloat64Array",
	KindPackedStringArray:  "PackedStringArray",
	KindPackedVector2Array: "PackedVector2Array",
	KindPackedVector3Array: "PackedVector3Array",
	KindPackedColorArray:   "PackedColorArray",
	KindPackedVector4Array: "PackedVector4Array",
}

var kindsByName = func() map[string]Kind {
	out := make(map[string]Kind, len(kindNames))
	for kind, name := range kindNames {
		out[name] = kind
	}
	return out
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a kind spelling as emitted by hosts and class catalogs.
func ParseKind(name string) (Kind, error) {
	kind, ok := kindsByName[name]
	if !ok {
		return KindNil, fmt.Errorf("unknown property kind %q", name)
	}
	return kind, nil
}

// Hint qualifies how PropertyInfo.HintString is to be interpreted.
type Hint int

const (
	HintNone Hint = iota
	// HintArrayType marks HintString as the element type of a typed array.
	HintArrayType
)

// UsageFlags is the host's property usage flag set.
type UsageFlags uint64

const (
	// UsageClassIsEnum marks an integer property as an enum whose path is
	// carried in PropertyInfo.ClassName.
	UsageClassIsEnum UsageFlags = 1 << iota
)

func (u UsageFlags) Has(flag UsageFlags) bool {
	return u&flag != 0
}

// PropertyInfo is one reflective property descriptor as enumerated by the
// host. ClassName is a weakly-typed side channel: depending on Kind and
// Usage it holds a nested class name or a "Class.Enum" path.
type PropertyInfo struct {
	Name       string
	Kind       Kind
	ClassName  string
	Hint       Hint
	HintString string
	Usage      UsageFlags
}
