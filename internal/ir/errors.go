package ir

import (
	"errors"
	"fmt"
)

// TypeMismatchError reports a cell that could not be coerced to the
// requested kind. Conversions never silently default.
type TypeMismatchError struct {
	// Want is the requested kind.
	Want Kind

	// Got is the kind actually stored in the cell.
	Got Kind

	// Value is the display form of the offending cell.
	Value string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("TYPE_MISMATCH: cannot convert %s %q to %s", e.Got, e.Value, e.Want)
}

// IsTypeMismatch returns true if err is or wraps a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	var tm *TypeMismatchError
	return errors.As(err, &tm)
}

func mismatch(want Kind, v Value) *TypeMismatchError {
	if v == nil {
		v = Null{}
	}
	return &TypeMismatchError{Want: want, Got: v.Kind(), Value: v.String()}
}
