package function

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports arguments rejected by a function's
// ValidateInput. Violations is never empty.
type ValidationError struct {
	Function   string
	Violations []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("VALIDATION: %s: %s", e.Function, strings.Join(e.Violations, "; "))
}

// UnknownFunctionError reports a lookup of an unregistered name.
type UnknownFunctionError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("UNKNOWN_FUNCTION: %s", e.Name)
}

// DuplicateNameError reports a second registration under an existing
// name. It is a startup configuration fault.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("DUPLICATE_NAME: function %s is already registered", e.Name)
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUnknownFunction returns true if err is or wraps an UnknownFunctionError.
func IsUnknownFunction(err error) bool {
	var ue *UnknownFunctionError
	return errors.As(err, &ue)
}

// IsDuplicateName returns true if err is or wraps a DuplicateNameError.
func IsDuplicateName(err error) bool {
	var de *DuplicateNameError
	return errors.As(err, &de)
}
