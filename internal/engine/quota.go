package engine

import (
	"strconv"

	"github.com/roach88/perspective/internal/queryir"
)

// rowBudget caps the rows a single join may emit. Exceeding it fails
// the execution with ROW_LIMIT. A budget with limit 0 never fails.
type rowBudget struct {
	limit   int
	current int
}

func newRowBudget(limit int) *rowBudget {
	return &rowBudget{limit: limit}
}

// take accounts for one emitted row and fails once the limit is passed.
func (b *rowBudget) take(table string) error {
	if b.limit == 0 {
		return nil
	}
	b.current++
	if b.current > b.limit {
		return queryir.NewIllegalQuery(queryir.ErrCodeRowLimit,
			"join with %s produced more than %d rows", table, b.limit).
			WithDetail("table", table).
			WithDetail("limit", strconv.Itoa(b.limit))
	}
	return nil
}

// reset starts counting a new join.
func (b *rowBudget) reset() {
	b.current = 0
}
