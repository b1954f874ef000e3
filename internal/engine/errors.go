package engine

import (
	"errors"
	"strconv"

	"github.com/roach88/perspective/internal/function"
	"github.com/roach88/perspective/internal/queryir"
)

// missingRowsError reports a table the row source does not know.
func missingRowsError(table string, cause error) *queryir.IllegalQueryError {
	err := queryir.NewIllegalQuery(queryir.ErrCodeMissingRows,
		"row source has no rows for table %q", table).
		WithDetail("table", table)
	err.Err = cause
	return err
}

// foreignColumnError reports a source row of table carrying a column
// qualified with another table.
func foreignColumnError(table string, row int, column string) *queryir.IllegalQueryError {
	return queryir.NewIllegalQuery(queryir.ErrCodeBadRow,
		"row %d of %q carries column %q of another table", row, table, column).
		WithDetail("table", table).
		WithDetail("row", strconv.Itoa(row)).
		WithDetail("column", column)
}

// evaluationError wraps a per-row projection failure. Function
// rejections carry the function's violation messages.
func evaluationError(cause error, row int, expr queryir.Expr) *queryir.IllegalQueryError {
	err := &queryir.IllegalQueryError{
		Code:    queryir.ErrCodeEvaluation,
		Message: "cannot evaluate " + expr.String() + " for row " + strconv.Itoa(row),
		Err:     cause,
	}

	var ve *function.ValidationError
	if errors.As(cause, &ve) {
		err.Violations = ve.Violations
		err.WithDetail("function", ve.Function)
	} else {
		err.Violations = []string{cause.Error()}
	}
	return err.WithDetail("row", strconv.Itoa(row)).WithDetail("expression", expr.String())
}

// IsMissingRows returns true if err reports a table absent from the row source.
// Uses errors.As to handle wrapped errors.
func IsMissingRows(err error) bool {
	return queryir.ErrorCodeOf(err) == queryir.ErrCodeMissingRows
}

// IsEvaluationError returns true if err is a per-row evaluation failure.
// Uses errors.As to handle wrapped errors.
func IsEvaluationError(err error) bool {
	return queryir.ErrorCodeOf(err) == queryir.ErrCodeEvaluation
}

// IsBadRowError returns true if err reports a malformed source row.
// Uses errors.As to handle wrapped errors.
func IsBadRowError(err error) bool {
	return queryir.ErrorCodeOf(err) == queryir.ErrCodeBadRow
}

// IsRowLimitError returns true if err reports a join over the row limit.
// Uses errors.As to handle wrapped errors.
func IsRowLimitError(err error) bool {
	return queryir.ErrorCodeOf(err) == queryir.ErrCodeRowLimit
}
