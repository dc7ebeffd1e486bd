package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// asNumber normalizes the numeric representations a decoded JSON value can
// arrive in. jsonschema.UnmarshalJSON yields json.Number; plain
// encoding/json yields float64.
func asNumber(value any) (json.Number, bool) {
	switch n := value.(type) {
	case json.Number:
		return n, true
	case float64:
		return json.Number(strconv.FormatFloat(n, 'g', -1, 64)), true
	case int:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int64:
		return json.Number(strconv.FormatInt(n, 10)), true
	case uint64:
		return json.Number(strconv.FormatUint(n, 10)), true
	}
	return "", false
}

// intFromNumber decodes a JSON number as a signed or unsigned 64-bit
// integer. Numbers with a fractional component are rejected, never
// truncated.
func intFromNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrExpectedIntegerGotFloat, n)
}

func floatFromNumber(n json.Number) (any, error) {
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, n.String())
	}
	return f, nil
}

// InferNative maps a decoded JSON value onto native values without a
// declared type. Objects become open dictionaries; arrays collapse to a
// typed slice when every element infers to the same primitive kind and stay
// heterogeneous otherwise.
func InferNative(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		return v, nil
	case json.Number, float64, int, int64, uint64:
		n, _ := asNumber(v)
		if i, err := intFromNumber(n); err == nil {
			return i, nil
		}
		return floatFromNumber(n)
	case []any:
		return inferSequence(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			converted, err := InferNative(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = converted
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unsupported JSON value of type %T", ErrTypeMismatch, value)
}

func inferSequence(values []any) (any, error) {
	elems := make([]any, len(values))
	for i, raw := range values {
		converted, err := InferNative(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = converted
	}
	if len(elems) == 0 {
		return elems, nil
	}
	switch elems[0].(type) {
	case bool:
		if out, ok := collapse[bool](elems); ok {
			return out, nil
		}
	case int64:
		if out, ok := collapse[int64](elems); ok {
			return out, nil
		}
	case float64:
		if out, ok := collapse[float64](elems); ok {
			return out, nil
		}
	case string:
		if out, ok := collapse[string](elems); ok {
			return out, nil
		}
	}
	return elems, nil
}

func collapse[T any](elems []any) ([]T, bool) {
	out := make([]T, len(elems))
	for i, elem := range elems {
		typed, ok := elem.(T)
		if !ok {
			return nil, false
		}
		out[i] = typed
	}
	return out, true
}

// jsonKindOf names a decoded JSON value's kind for error messages.
func jsonKindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, int, int64, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
