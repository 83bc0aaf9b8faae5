package schemas

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pickSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["picks"],
	"properties": {
		"picks": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["brand", "model"],
				"properties": {
					"brand": {"type": "string"},
					"model": {"type": "string"},
					"price": {"type": "number", "minimum": 0}
				}
			}
		}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(pickSchema, `{"picks": [{"brand": "Honda", "model": "Civic"}]}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	err := ValidateJSONString(pickSchema, `{"choices": []}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "compare",
		Errors: []FieldError{
			{Field: "comparison", Message: "is required"},
			{Field: "picks.0.price", Message: "must be >= 0"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "compare validation failed")
	assert.Contains(t, errorMsg, "1. comparison: is required")
	assert.Contains(t, errorMsg, "2. picks.0.price")
}

func TestSchema_NestedFieldPath(t *testing.T) {
	s, err := Compile("picks", pickSchema)
	require.NoError(t, err)

	err = s.Validate(`{"picks": [{"brand": "Honda", "model": "Civic", "price": -1}]}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "picks", validationErr.Schema)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "picks.0.price", validationErr.Errors[0].Field)
}

func TestSchema_MalformedDocument(t *testing.T) {
	s, err := Compile("picks", pickSchema)
	require.NoError(t, err)

	err = s.Validate(`{"picks": [`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile("broken", `{"type": "object", "required": "name"}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "broken", loadErr.Path)
}

func TestRegistry(t *testing.T) {
	fsys := fstest.MapFS{
		"picks.schema.json": {Data: []byte(pickSchema)},
		"notes.schema.json": {Data: []byte(`{"type": "object"}`)},
		"README.md":         {Data: []byte("ignored")},
	}

	r, err := NewRegistry(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes", "picks"}, r.Names())

	assert.NoError(t, r.Validate("picks", `{"picks": []}`))
	assert.Error(t, r.Validate("picks", `{}`))

	err = r.Validate("missing", `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestRegistry_InvalidSchemaFile(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.schema.json": {Data: []byte(`{"type": `)},
	}

	_, err := NewRegistry(fsys)
	require.Error(t, err)
}
