package request

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidFilterError reports a filter value outside the supported set.
type InvalidFilterError struct {
	Field   string
	Value   string
	Allowed []string
}

// Error implements the error interface.
func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("INVALID_FILTER: %s %q is not supported (allowed: %s)",
		e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// IsInvalidFilter returns true if err is or wraps an InvalidFilterError.
func IsInvalidFilter(err error) bool {
	var ife *InvalidFilterError
	return errors.As(err, &ife)
}
