package loader

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator checks a job's properties against a JSON Schema
// document before construction. A JobFactory may use one to reject
// malformed properties with a precise error instead of failing deep
// inside job construction.
type SchemaValidator interface {
	Validate(schema string, properties map[string]any) error
}

// JSONSchemaValidator is the reference SchemaValidator, backed by
// gojsonschema.
type JSONSchemaValidator struct{}

// NewJSONSchemaValidator constructs a JSONSchemaValidator.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{}
}

// Validate checks properties against schema, a JSON Schema document
// given as a string.
func (JSONSchemaValidator) Validate(schema string, properties map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	docLoader := gojsonschema.NewGoLoader(properties)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("loader: schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		messages = append(messages, e.String())
	}
	return fmt.Errorf("loader: properties do not satisfy schema: %s", strings.Join(messages, "; "))
}
