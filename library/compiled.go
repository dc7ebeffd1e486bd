// Package library caches compiled class schemas and drives the full
// round trip: generate a schema document, validate JSON input against it and
// instantiate host objects from validated input.
package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"sigs.k8s.io/yaml"

	"github.com/classkit/classkit/runtime"
	"github.com/classkit/classkit/schema"
)

// CompiledSchema pairs a schema document with the validator compiled from
// it. Document holds the canonicalized serialization, so two compilations of
// the same class yield byte-identical documents.
type CompiledSchema struct {
	Root     *schema.RootSchema
	Document []byte

	validator *jsonschema.Schema
	host      runtime.Host
}

// Compile serializes the document, canonicalizes it and compiles the result
// into a validator. A generated document that does not compile is a bug in
// generation, not in the caller's input.
func Compile(host runtime.Host, root *schema.RootSchema) (*CompiledSchema, error) {
	raw, err := root.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("serializing schema document: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing schema document: %w", err)
	}

	decoded, err := jsonschema.UnmarshalJSON(bytes.NewReader(canonical))
	if err != nil {
		return nil, fmt.Errorf("generated document is not valid JSON: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", decoded); err != nil {
		return nil, fmt.Errorf("generated document is not a valid schema: %w", err)
	}
	validator, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("generated document is not a valid schema: %w", err)
	}

	return &CompiledSchema{
		Root:      root,
		Document:  canonical,
		validator: validator,
		host:      host,
	}, nil
}

// ValidationError reports JSON input rejected by the schema's validator.
type ValidationError struct {
	Cause *jsonschema.ValidationError
}

func (e *ValidationError) Error() string {
	return e.Cause.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Validate decodes and validates JSON input, returning the decoded value
// with numbers preserved as json.Number for exact integer handling.
func (c *CompiledSchema) Validate(input []byte) (any, error) {
	decoded, err := jsonschema.UnmarshalJSON(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	if err := c.validator.Validate(decoded); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, &ValidationError{Cause: ve}
		}
		return nil, err
	}
	return decoded, nil
}

// Instantiate validates JSON input and rebuilds the native value it
// describes. For documents whose base type is not an object shape the input
// carries the actual value under a synthetic "value" property, which is
// unwrapped before instantiation.
func (c *CompiledSchema) Instantiate(input []byte) (any, error) {
	decoded, err := c.Validate(input)
	if err != nil {
		return nil, err
	}

	switch c.Root.Base.Kind() {
	case schema.KindClass, schema.KindObject:
	default:
		if props, ok := decoded.(map[string]any); ok && len(props) == 1 {
			if inner, ok := props["value"]; ok {
				decoded = inner
			}
		}
	}
	return c.Root.Instantiate(c.host, decoded)
}

// ArraySchema compiles a new document describing an array of this schema's
// base type, registered in the definitions table under itemName.
func (c *CompiledSchema) ArraySchema(itemName string) (*CompiledSchema, error) {
	return Compile(c.host, c.Root.ArraySchema(itemName))
}

// ResponseFormat is the response_format payload of structured-output APIs.
type ResponseFormat struct {
	Type       string               `json:"type"`
	JSONSchema ResponseFormatSchema `json:"json_schema"`
}

// ResponseFormatSchema names a schema document for a structured-output
// request.
type ResponseFormatSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

// ResponseFormat wraps the schema document for structured-output requests.
// name must be a valid identifier for the consuming API.
func (c *CompiledSchema) ResponseFormat(name string) ResponseFormat {
	return ResponseFormat{
		Type: "json_schema",
		JSONSchema: ResponseFormatSchema{
			Name:   name,
			Schema: json.RawMessage(c.Document),
		},
	}
}

// YAML renders the schema document as YAML for human inspection.
func (c *CompiledSchema) YAML() ([]byte, error) {
	return yaml.JSONToYAML(c.Document)
}
