package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidDocument is returned (wrapped) by Validate when the document does
// not satisfy the schema.
var ErrInvalidDocument = errors.New("document does not match schema")

// ValidationError lists every violation reported for a document.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}

// Validate checks document against schema. A nil document is treated as an
// empty object so that missing arguments surface as "required" violations.
// It returns a *ValidationError when the document is rejected, or a plain
// error when the schema itself cannot be compiled.
func Validate(schema *Schema, document map[string]any) error {
	if schema == nil {
		return nil
	}
	if document == nil {
		document = map[string]any{}
	}

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		violations = append(violations, resultErr.String())
	}
	return &ValidationError{Violations: violations}
}
