package schema

import (
	"fmt"
	"math"
)

// Native value types produced when instantiating built-in composites.
// Scalar widths match the host's value layout: single-precision floats and
// 32-bit integers for the geometric types.
type (
	Vector2 struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
	}
	Vector2i struct {
		X int32 `json:"x"`
		Y int32 `json:"y"`
	}
	Vector3 struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
		Z float32 `json:"z"`
	}
	Vector3i struct {
		X int32 `json:"x"`
		Y int32 `json:"y"`
		Z int32 `json:"z"`
	}
	Vector4 struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
		Z float32 `json:"z"`
		W float32 `json:"w"`
	}
	Vector4i struct {
		X int32 `json:"x"`
		Y int32 `json:"y"`
		Z int32 `json:"z"`
		W int32 `json:"w"`
	}

	Rect2 struct {
		Position Vector2 `json:"position"`
		Size     Vector2 `json:"size"`
	}
	Rect2i struct {
		Position Vector2i `json:"position"`
		Size     Vector2i `json:"size"`
	}

	Transform2D struct {
		A      Vector2 `json:"a"`
		B      Vector2 `json:"b"`
		Origin Vector2 `json:"origin"`
	}
	Transform3D struct {
		Basis  Basis   `json:"basis"`
		Origin Vector3 `json:"origin"`
	}

	Plane struct {
		Normal Vector3 `json:"normal"`
		D      float32 `json:"d"`
	}
	Quaternion struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
		Z float32 `json:"z"`
		W float32 `json:"w"`
	}
	AABB struct {
		Position Vector3 `json:"position"`
		Size     Vector3 `json:"size"`
	}
	Basis struct {
		Rows [3]Vector3 `json:"rows"`
	}
	Projection struct {
		Cols [4]Vector4 `json:"cols"`
	}
	Color struct {
		R float32 `json:"r"`
		G float32 `json:"g"`
		B float32 `json:"b"`
		A float32 `json:"a"`
	}

	// RID is an opaque host resource identifier.
	RID uint64
)

// fromJSON rebuilds the tag's native value field by field, driven by the
// same structural layout its Source definition describes.
func (t CompositeTag) fromJSON(value any) (any, error) {
	switch t {
	case CompositeVector2:
		return vector2FromJSON(value)
	case CompositeVector2i:
		return vector2iFromJSON(value)
	case CompositeRect2:
		return rect2FromJSON(value)
	case CompositeRect2i:
		return rect2iFromJSON(value)
	case CompositeVector3:
		return vector3FromJSON(value)
	case CompositeVector3i:
		return vector3iFromJSON(value)
	case CompositeTransform2D:
		return transform2DFromJSON(value)
	case CompositeVector4:
		return vector4FromJSON(value)
	case CompositeVector4i:
		return vector4iFromJSON(value)
	case CompositePlane:
		return planeFromJSON(value)
	case CompositeQuaternion:
		return quaternionFromJSON(value)
	case CompositeAABB:
		return aabbFromJSON(value)
	case CompositeBasis:
		return basisFromJSON(value)
	case CompositeTransform3D:
		return transform3DFromJSON(value)
	case CompositeProjection:
		return projectionFromJSON(value)
	case CompositeColor:
		return colorFromJSON(value)
	case CompositeRID:
		return ridFromJSON(value)
	case CompositePackedByteArray:
		return packedFromJSON(value, asUint8)
	case CompositePackedInt32Array:
		return packedFromJSON(value, asInt32)
	case CompositePackedInt64Array:
		return packedFromJSON(value, asInt64)
	case CompositePackedFloat32Array:
		return packedFromJSON(value, asFloat32)
	case CompositePackedFloat64Array:
		return packedFromJSON(value, asFloat64)
	case CompositePackedStringArray:
		return packedFromJSON(value, asString)
	case CompositePackedVector2Array:
		return packedFromJSON(value, vector2FromJSON)
	case CompositePackedVector3Array:
		return packedFromJSON(value, vector3FromJSON)
	case CompositePackedColorArray:
		return packedFromJSON(value, colorFromJSON)
	case CompositePackedVector4Array:
		return packedFromJSON(value, vector4FromJSON)
	}
	return nil, fmt.Errorf("no reconstruction for composite tag %d", int(t))
}

func vector2FromJSON(value any) (Vector2, error) {
	props, err := objectProps(value)
	if err != nil {
		return Vector2{}, err
	}
	var v Vector2
	if v.X, err = float32At(props, "x"); err != nil {
		return Vector2{}, err
	}
	if v.Y, err = float32At(props, "y"); err != nil {
		return Vector2{}, err
	}
	return v, nil
}

func vector2iFromJSON(value any) (Vector2i, error) {
	props, err := objectProps(value)
	if err != nil {
		return Vector2i{}, err
	}
	var v Vector2i
	if v.X, err = int32At(props, "x"); err != nil {
		return Vector2i{}, err
	}
	if v.Y, err = int32At(props, "y"); err != nil {
		return Vector2i{}, err
	}
	return v, nil
}

func vector3FromJSON(value any) (Vector3, error) {
	props, err := objectProps(value)
	if err != nil {
		return Vector3{}, err
	}
	var v Vector3
	if v.X, err = float32At(props, "x"); err != nil {
		return Vector3{}, err
	}
	if v.Y, err = float32At(props, "y"); err != nil {
		return Vector3{}, err
	}
	if v.Z, err = float32At(props, "z"); err != nil {
		return Vector3{}, err
	}
	return v, nil
}

func vector3iFromJSON(value any) (Vector3i, error) {
	props, err := objectProps(value)
	if err != nil {
		return Vector3i{}, err
	}
	var v Vector3i
	if v.X, err = int32At(props, "x"); err != nil {
		return Vector3i{}, err
	}
	if v.Y, err = int32At(props, "y"); err != nil {
		return Vector3i{}, err
	}
	if v.Z, err = int32At(props, "z"); err != nil {
		return Vector3i{}, err
	}
	return v, nil
}

func vector4FromJSON(value any) (Vector4, error) {
	props, err := objectProps(value)
	if err != nil {
		return Vector4{}, err
	}
	var v Vector4
	if v.X, err = float32At(props, "x"); err != nil {
		return Vector4{}, err
	}
	if v.Y, err = float32At(props, "y"); err != nil {
		return Vector4{}, err
	}
	if v.Z, err = float32At(props, "z"); err != nil {
		return Vector4{}, err
	}
	if v.W, err = float32At(props, "w"); err != nil {
		return Vector4{}, err
	}
	return v, nil
}

func vector4iFromJSON(value any) (Vector4i, error) {
	props, err := objectProps(value)
	if err != nil {
		return Vector4i{}, err
	}
	var v Vector4i
	if v.X, err = int32At(props, "x"); err != nil {
		return Vector4i{}, err
	}
	if v.Y, err = int32At(props, "y"); err != nil {
		return Vector4i{}, err
	}
	if v.Z, err = int32At(props, "z"); err != nil {
		return Vector4i{}, err
	}
	if v.W, err = int32At(props, "w"); err != nil {
		return Vector4i{}, err
	}
	return v, nil
}

func rect2FromJSON(value any) (Rect2, error) {
	props, err := objectProps(value)
	if err != nil {
		return Rect2{}, err
	}
	var r Rect2
	if r.Position, err = fieldAt(props, "position", vector2FromJSON); err != nil {
		return Rect2{}, err
	}
	if r.Size, err = fieldAt(props, "size", vector2FromJSON); err != nil {
		return Rect2{}, err
	}
	return r, nil
}

func rect2iFromJSON(value any) (Rect2i, error) {
	props, err := objectProps(value)
	if err != nil {
		return Rect2i{}, err
	}
	var r Rect2i
	if r.Position, err = fieldAt(props, "position", vector2iFromJSON); err != nil {
		return Rect2i{}, err
	}
	if r.Size, err = fieldAt(props, "size", vector2iFromJSON); err != nil {
		return Rect2i{}, err
	}
	return r, nil
}

func transform2DFromJSON(value any) (Transform2D, error) {
	props, err := objectProps(value)
	if err != nil {
		return Transform2D{}, err
	}
	var t Transform2D
	if t.A, err = fieldAt(props, "a", vector2FromJSON); err != nil {
		return Transform2D{}, err
	}
	if t.B, err = fieldAt(props, "b", vector2FromJSON); err != nil {
		return Transform2D{}, err
	}
	if t.Origin, err = fieldAt(props, "origin", vector2FromJSON); err != nil {
		return Transform2D{}, err
	}
	return t, nil
}

func transform3DFromJSON(value any) (Transform3D, error) {
	props, err := objectProps(value)
	if err != nil {
		return Transform3D{}, err
	}
	var t Transform3D
	if t.Basis, err = fieldAt(props, "basis", basisFromJSON); err != nil {
		return Transform3D{}, err
	}
	if t.Origin, err = fieldAt(props, "origin", vector3FromJSON); err != nil {
		return Transform3D{}, err
	}
	return t, nil
}

func planeFromJSON(value any) (Plane, error) {
	props, err := objectProps(value)
	if err != nil {
		return Plane{}, err
	}
	var p Plane
	if p.Normal, err = fieldAt(props, "normal", vector3FromJSON); err != nil {
		return Plane{}, err
	}
	if p.D, err = float32At(props, "d"); err != nil {
		return Plane{}, err
	}
	return p, nil
}

func quaternionFromJSON(value any) (Quaternion, error) {
	v, err := vector4FromJSON(value)
	if err != nil {
		return Quaternion{}, err
	}
	return Quaternion{X: v.X, Y: v.Y, Z: v.Z, W: v.W}, nil
}

func aabbFromJSON(value any) (AABB, error) {
	props, err := objectProps(value)
	if err != nil {
		return AABB{}, err
	}
	var b AABB
	if b.Position, err = fieldAt(props, "position", vector3FromJSON); err != nil {
		return AABB{}, err
	}
	if b.Size, err = fieldAt(props, "size", vector3FromJSON); err != nil {
		return AABB{}, err
	}
	return b, nil
}

func basisFromJSON(value any) (Basis, error) {
	props, err := objectProps(value)
	if err != nil {
		return Basis{}, err
	}
	rows, err := propAt(props, "rows")
	if err != nil {
		return Basis{}, err
	}
	elems, err := arrayItems(rows)
	if err != nil {
		return Basis{}, err
	}
	if len(elems) != 3 {
		return Basis{}, fmt.Errorf("%w: expected 3 rows, got %d", ErrTupleArityMismatch, len(elems))
	}
	var b Basis
	for i, elem := range elems {
		if b.Rows[i], err = vector3FromJSON(elem); err != nil {
			return Basis{}, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return b, nil
}

func projectionFromJSON(value any) (Projection, error) {
	props, err := objectProps(value)
	if err != nil {
		return Projection{}, err
	}
	cols, err := propAt(props, "cols")
	if err != nil {
		return Projection{}, err
	}
	elems, err := arrayItems(cols)
	if err != nil {
		return Projection{}, err
	}
	if len(elems) != 4 {
		return Projection{}, fmt.Errorf("%w: expected 4 columns, got %d", ErrTupleArityMismatch, len(elems))
	}
	var p Projection
	for i, elem := range elems {
		if p.Cols[i], err = vector4FromJSON(elem); err != nil {
			return Projection{}, fmt.Errorf("column %d: %w", i, err)
		}
	}
	return p, nil
}

func colorFromJSON(value any) (Color, error) {
	props, err := objectProps(value)
	if err != nil {
		return Color{}, err
	}
	var c Color
	if c.R, err = float32At(props, "r"); err != nil {
		return Color{}, err
	}
	if c.G, err = float32At(props, "g"); err != nil {
		return Color{}, err
	}
	if c.B, err = float32At(props, "b"); err != nil {
		return Color{}, err
	}
	if c.A, err = float32At(props, "a"); err != nil {
		return Color{}, err
	}
	return c, nil
}

func ridFromJSON(value any) (RID, error) {
	u, err := asUint64(value)
	if err != nil {
		return 0, err
	}
	return RID(u), nil
}

func packedFromJSON[T any](value any, convert func(any) (T, error)) ([]T, error) {
	elems, err := arrayItems(value)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(elems))
	for i, elem := range elems {
		if out[i], err = convert(elem); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

func objectProps(value any) (map[string]any, error) {
	props, ok := value.(map[string]any)
	if !ok {
		return nil, mismatch(KindObject, value)
	}
	return props, nil
}

func arrayItems(value any) ([]any, error) {
	elems, ok := value.([]any)
	if !ok {
		return nil, mismatch(KindArray, value)
	}
	return elems, nil
}

func propAt(props map[string]any, key string) (any, error) {
	raw, ok := props[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingProperty, key)
	}
	return raw, nil
}

func fieldAt[T any](props map[string]any, key string, convert func(any) (T, error)) (T, error) {
	var zero T
	raw, err := propAt(props, key)
	if err != nil {
		return zero, err
	}
	out, err := convert(raw)
	if err != nil {
		return zero, fmt.Errorf("field %q: %w", key, err)
	}
	return out, nil
}

func float32At(props map[string]any, key string) (float32, error) {
	return fieldAt(props, key, asFloat32)
}

func int32At(props map[string]any, key string) (int32, error) {
	return fieldAt(props, key, asInt32)
}

func asFloat64(value any) (float64, error) {
	n, ok := asNumber(value)
	if !ok {
		return 0, mismatch(KindNumber, value)
	}
	f, err := floatFromNumber(n)
	if err != nil {
		return 0, err
	}
	return f.(float64), nil
}

func asFloat32(value any) (float32, error) {
	f, err := asFloat64(value)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

func asString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", mismatch(KindString, value)
	}
	return s, nil
}

// signedInRange decodes a strict integer and enforces the target width.
func signedInRange(value any, min, max int64) (int64, error) {
	n, ok := asNumber(value)
	if !ok {
		return 0, mismatch(KindInteger, value)
	}
	decoded, err := intFromNumber(n)
	if err != nil {
		return 0, err
	}
	switch i := decoded.(type) {
	case int64:
		if i < min || i > max {
			return 0, fmt.Errorf("%w: %d is outside [%d, %d]", ErrIntegerOutOfRange, i, min, max)
		}
		return i, nil
	case uint64:
		if i > uint64(max) {
			return 0, fmt.Errorf("%w: %d is outside [%d, %d]", ErrIntegerOutOfRange, i, min, max)
		}
		return int64(i), nil
	}
	return 0, mismatch(KindInteger, value)
}

func asInt64(value any) (int64, error) {
	return signedInRange(value, math.MinInt64, math.MaxInt64)
}

func asInt32(value any) (int32, error) {
	i, err := signedInRange(value, math.MinInt32, math.MaxInt32)
	if err != nil {
		return 0, err
	}
	return int32(i), nil
}

func asUint8(value any) (byte, error) {
	i, err := signedInRange(value, 0, math.MaxUint8)
	if err != nil {
		return 0, err
	}
	return byte(i), nil
}

func asUint64(value any) (uint64, error) {
	n, ok := asNumber(value)
	if !ok {
		return 0, mismatch(KindInteger, value)
	}
	decoded, err := intFromNumber(n)
	if err != nil {
		return 0, err
	}
	switch i := decoded.(type) {
	case int64:
		if i < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrIntegerOutOfRange, i)
		}
		return uint64(i), nil
	case uint64:
		return i, nil
	}
	return 0, mismatch(KindInteger, value)
}
