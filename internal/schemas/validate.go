// Package schemas validates JSON documents against JSON Schemas.
package schemas

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const schemaSuffix = ".schema.json"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
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
	if ve.Schema != "" {
		fmt.Fprintf(&sb, "%s validation failed:\n", ve.Schema)
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses schema content once so it can validate many documents.
func Compile(name, content string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	return &Schema{name: name, schema: s}, nil
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks a JSON document. A malformed document is reported as a
// *ValidationError on the root field.
func (s *Schema) Validate(jsonContent string) error {
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &ValidationError{
			Schema: s.name,
			Errors: []FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}
	return fromResult(s.name, result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return fromResult("", result)
}

func fromResult(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// Registry holds compiled schemas keyed by name ("compare" for compare.schema.json).
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry compiles every *.schema.json file at the root of fsys.
func NewRegistry(fsys fs.FS) (*Registry, error) {
	matches, err := fs.Glob(fsys, "*"+schemaSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	r := &Registry{schemas: make(map[string]*Schema, len(matches))}
	for _, file := range matches {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, &SchemaLoadError{Path: file, Message: "read failed", Cause: err}
		}
		name := strings.TrimSuffix(path.Base(file), schemaSuffix)
		s, err := Compile(name, string(data))
		if err != nil {
			return nil, err
		}
		r.schemas[name] = s
	}
	return r, nil
}

// Validate checks jsonContent against the named schema.
func (r *Registry) Validate(name, jsonContent string) error {
	s, ok := r.schemas[name]
	if !ok {
		return &SchemaLoadError{Path: name, Message: "schema not registered"}
	}
	return s.Validate(jsonContent)
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
