package store

import (
	"errors"
	"fmt"
)

// UnknownTableError reports an attempt to store rows for a table the
// catalog does not define.
type UnknownTableError struct {
	Table string
}

// Error implements the error interface.
func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("UNKNOWN_TABLE: %q is not an inventory table", e.Table)
}

// IsUnknownTable returns true if err is or wraps an UnknownTableError.
func IsUnknownTable(err error) bool {
	var ute *UnknownTableError
	return errors.As(err, &ute)
}
