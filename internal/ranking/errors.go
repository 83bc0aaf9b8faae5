package ranking

import (
	"errors"
	"fmt"

	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
)

// ValidationError reports malformed preferences.
type ValidationError = validation.Error

// FieldError is a single failed preference constraint.
type FieldError = validation.FieldError

var (
	// ErrEmptyCatalog is returned when there are no cars to rank.
	ErrEmptyCatalog = errors.New("car catalog is empty")
	// ErrInvalidLimit is returned when a result limit is not positive.
	ErrInvalidLimit = errors.New("limit must be greater than zero")
)

// ValidatePreferences checks prefs against its validate tags. It returns a
// *ValidationError listing every failing field.
func ValidatePreferences(prefs *types.UserPreferences) error {
	if prefs == nil {
		return &ValidationError{Fields: []FieldError{{Field: "preferences", Tag: "required", Message: "is required"}}}
	}
	if err := validation.Struct(prefs); err != nil {
		return err
	}
	return nil
}

func validateInput(cars []types.Car, prefs *types.UserPreferences) error {
	if err := ValidatePreferences(prefs); err != nil {
		return err
	}
	if len(cars) == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return nil
}
