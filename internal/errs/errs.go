// Package errs holds the error taxonomy shared by every stage of the recipe
// engine. Each stage wraps one of these sentinels with fmt.Errorf and %w, so a
// caller can classify any failure with errors.Is regardless of which stage
// produced it.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch means a value kind disagrees with its definition kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrValidationFailed means a value is outside its declared range or length.
	ErrValidationFailed = errors.New("validation failed")
	// ErrConversionFailed means input text could not be parsed to the target kind.
	ErrConversionFailed = errors.New("conversion failed")
	// ErrCalculation means a formula could not be solved.
	ErrCalculation = errors.New("calculation error")
	// ErrIndexOutOfRange means a step index is outside the recipe.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrColumnNotFound means the requested column is absent on the step.
	ErrColumnNotFound = errors.New("column not found")
	// ErrStructural covers missing mandatory columns, action/column mismatches
	// and loops nested too deep.
	ErrStructural = errors.New("structural error")
	// ErrUnknownAction means an action id or name does not resolve in the catalog.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnknownPropertyType means a property type id is not registered.
	ErrUnknownPropertyType = errors.New("unknown property type")
)

// StructuralError is one structural problem found on a recipe step.
type StructuralError struct {
	Step   int
	Column string
	Reason string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("step %d, column %q: %s", e.Step, e.Column, e.Reason)
	}
	return fmt.Sprintf("step %d: %s", e.Step, e.Reason)
}

// Unwrap lets errors.Is match ErrStructural.
func (e *StructuralError) Unwrap() error { return ErrStructural }
