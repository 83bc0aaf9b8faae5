// Package validation validates request and catalog structs against their validate tags.
package validation

import (
	"fmt"
	"strings"
)

// FieldError represents a single failed constraint on a field
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error collects every field that failed validation
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error.
func (e *Error) Add(field, tag, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Tag: tag, Message: message})
}
