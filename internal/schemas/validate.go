// Package schemas validates CV documents against the embedded JSON Schema
// before they are decoded into the document model.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/cv-maker/internal/types"
	schemafiles "github.com/jonathan/cv-maker/schemas"
)

// ValidationError lists every schema violation found in a document
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a field path
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		parts[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SchemaLoadError represents errors loading or compiling a schema
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	cvSchemaOnce sync.Once
	cvSchema     *gojsonschema.Schema
	cvSchemaErr  error
)

func compiledCVSchema() (*gojsonschema.Schema, error) {
	cvSchemaOnce.Do(func() {
		cvSchema, cvSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemafiles.CV))
		if cvSchemaErr != nil {
			cvSchemaErr = &SchemaLoadError{Name: "cv.schema.json", Message: "invalid schema", Cause: cvSchemaErr}
		}
	})
	return cvSchema, cvSchemaErr
}

// ValidateCV checks raw JSON against the CV schema. It returns a
// *ValidationError listing every violation, or an error when data is not
// JSON at all.
func ValidateCV(data []byte) error {
	schema, err := compiledCVSchema()
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "document is not valid JSON"}}}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate CV: %w", err)
	}
	if result.Valid() {
		return nil
	}
	return toValidationError(result)
}

// ValidateJSONString validates JSON content against an arbitrary schema
func ValidateJSONString(schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
	if err != nil {
		return &SchemaLoadError{
			Name:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	if result.Valid() {
		return nil
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) *ValidationError {
	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		// if/then branches report both the branch failure and its cause
		if desc.Type() == "condition_then" {
			continue
		}
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// DecodeCV validates data against the schema, decodes it, and checks the
// structural invariants the schema cannot express (unique section ids).
func DecodeCV(data []byte) (types.CV, error) {
	if err := ValidateCV(data); err != nil {
		return types.CV{}, err
	}
	var cv types.CV
	if err := json.Unmarshal(data, &cv); err != nil {
		return types.CV{}, &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if err := cv.Validate(); err != nil {
		return types.CV{}, &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	return cv, nil
}

// ReadCVFile reads, validates and decodes a CV document from disk.
func ReadCVFile(path string) (types.CV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.CV{}, fmt.Errorf("CV file not found: %s", path)
		}
		return types.CV{}, fmt.Errorf("failed to read CV file %s: %w", path, err)
	}
	return DecodeCV(data)
}
