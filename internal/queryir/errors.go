package queryir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes illegal queries.
type ErrorCode string

const (
	// ErrCodeSyntax indicates query text that does not match the grammar.
	ErrCodeSyntax ErrorCode = "SYNTAX"

	// ErrCodeUnknownTable indicates a table missing from the catalog or
	// not part of the statement's FROM/JOIN scope.
	ErrCodeUnknownTable ErrorCode = "UNKNOWN_TABLE"

	// ErrCodeUnknownColumn indicates a column missing from its table.
	ErrCodeUnknownColumn ErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeBadJoin indicates a malformed join clause.
	ErrCodeBadJoin ErrorCode = "BAD_JOIN"

	// ErrCodeBadFilter indicates a malformed WHERE clause.
	ErrCodeBadFilter ErrorCode = "BAD_FILTER"

	// ErrCodeFunction indicates an unknown function or rejected arguments.
	ErrCodeFunction ErrorCode = "FUNCTION"

	// ErrCodeEmptyProjection indicates a statement selecting nothing.
	ErrCodeEmptyProjection ErrorCode = "EMPTY_PROJECTION"

	// ErrCodeMissingRows indicates the row source has no rows for a table.
	ErrCodeMissingRows ErrorCode = "MISSING_ROWS"

	// ErrCodeEvaluation indicates a per-row failure during execution.
	ErrCodeEvaluation ErrorCode = "EVALUATION"

	// ErrCodeRowLimit indicates a join produced more rows than the
	// executor is configured to hold.
	ErrCodeRowLimit ErrorCode = "ROW_LIMIT"

	// ErrCodeBadRow indicates a source row whose shape does not fit the
	// table it was loaded for.
	ErrCodeBadRow ErrorCode = "BAD_ROW"
)

// IllegalQueryError rejects a statement at parse, build or execution
// time. The whole statement is rejected; no partial result exists.
type IllegalQueryError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description of the first problem.
	Message string

	// Violations lists every problem found. For structural problems the
	// first entry is Message; for rejected function arguments they are
	// the function's own violation messages.
	Violations []string

	// Details contains additional context (table, column, function, position).
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *IllegalQueryError) Error() string {
	msg := fmt.Sprintf("ILLEGAL_QUERY[%s]: %s", e.Code, e.Message)
	switch {
	case len(e.Violations) == 0:
	case e.Violations[0] != e.Message:
		msg += ": " + strings.Join(e.Violations, "; ")
	case len(e.Violations) > 1:
		msg += " (also: " + strings.Join(e.Violations[1:], "; ") + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *IllegalQueryError) Unwrap() error {
	return e.Err
}

// NewIllegalQuery creates an IllegalQueryError with a single violation.
func NewIllegalQuery(code ErrorCode, format string, args ...any) *IllegalQueryError {
	msg := fmt.Sprintf(format, args...)
	return &IllegalQueryError{Code: code, Message: msg, Violations: []string{msg}}
}

// WithDetail adds a context entry and returns e for chaining.
func (e *IllegalQueryError) WithDetail(key, value string) *IllegalQueryError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// IsIllegalQuery returns true if err is or wraps an IllegalQueryError.
func IsIllegalQuery(err error) bool {
	var iq *IllegalQueryError
	return errors.As(err, &iq)
}

// ErrorCodeOf returns the code of a wrapped IllegalQueryError, or "".
func ErrorCodeOf(err error) ErrorCode {
	var iq *IllegalQueryError
	if errors.As(err, &iq) {
		return iq.Code
	}
	return ""
}
