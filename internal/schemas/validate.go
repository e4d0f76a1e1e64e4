// Package schemas provides JSON Schema validation for rule files and score reports.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/resume-evaluator/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  - %s: %s", err.Field, err.Message)
	}
	return sb.String()
}

// compiled caches parsed schemas by name
var compiled sync.Map

// Compile returns the parsed form of an embedded schema, e.g. "rules.schema.json".
// Schemas are parsed once and shared.
func Compile(schemaName string) (*gojsonschema.Schema, error) {
	if cached, ok := compiled.Load(schemaName); ok {
		return cached.(*gojsonschema.Schema), nil
	}
	data, err := schemafiles.Files.ReadFile(schemaName)
	if err != nil {
		return nil, &SchemaLoadError{Path: schemaName, Message: "schema not found", Cause: err}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: schemaName, Message: "invalid schema", Cause: err}
	}
	actual, _ := compiled.LoadOrStore(schemaName, schema)
	return actual.(*gojsonschema.Schema), nil
}

// Validate checks a JSON document against an embedded schema
func Validate(schemaName string, document []byte) error {
	return validate(schemaName, gojsonschema.NewBytesLoader(document))
}

// ValidateValue checks a Go value, as it would be marshaled to JSON, against an embedded schema
func ValidateValue(schemaName string, value interface{}) error {
	return validate(schemaName, gojsonschema.NewGoLoader(value))
}

func validate(schemaName string, document gojsonschema.JSONLoader) error {
	schema, err := Compile(schemaName)
	if err != nil {
		return err
	}
	result, err := schema.Validate(document)
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", schemaName, err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return validationErr
}
