package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution errors, raised while decoding reflective property descriptors
// into schema types. All are recoverable: generation fails as a whole and
// nothing partial is kept.
var (
	ErrClassNotFound     = errors.New("class not found")
	ErrEnumPathMalformed = errors.New("malformed enum path")
	ErrUnsupportedHint   = errors.New("unsupported type hint")
	ErrUnsupportedKind   = errors.New("unsupported property kind")
)

// ErrDanglingReference is returned when a Ref names a definition that is not
// in the accompanying definitions table.
var ErrDanglingReference = errors.New("dangling reference")

// Conversion errors, raised while rebuilding native values from JSON.
var (
	ErrTypeMismatch            = errors.New("type mismatch")
	ErrExpectedIntegerGotFloat = errors.New("expected integer, got float")
	ErrIntegerOutOfRange       = errors.New("integer out of range")
	ErrPropertyCountMismatch   = errors.New("property count mismatch")
	ErrMissingProperty         = errors.New("missing property")
	ErrUnknownProperty         = errors.New("unknown property")
	ErrTupleArityMismatch      = errors.New("tuple arity mismatch")
	ErrUnknownVariant          = errors.New("unknown enum variant")
)

// ErrHost wraps failures of the host collaborator (reflection, construction
// or property assignment).
var ErrHost = errors.New("host operation failed")

// UnknownVariantError reports a string that is not one of an enum's declared
// variant names. It carries the valid set for the caller's message and
// unwraps to ErrUnknownVariant.
type UnknownVariantError struct {
	Got   string
	Valid []string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("expected one of %q, got %q", strings.Join(e.Valid, ", "), e.Got)
}

func (e *UnknownVariantError) Unwrap() error {
	return ErrUnknownVariant
}

func mismatch(want Kind, got any) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, want, jsonKindOf(got))
}
