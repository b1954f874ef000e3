package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/perspective/internal/ir"
	"github.com/roach88/perspective/internal/queryir"
)

// load fetches a table's rows and qualifies their column names. A column
// qualified with any other table rejects the statement.
func (e *execution) load(table string) ([]ir.Row, error) {
	raw, err := e.source.Rows(e.ctx, table)
	if err != nil {
		if errors.Is(err, ErrTableNotFound) {
			return nil, missingRowsError(table, err)
		}
		return nil, fmt.Errorf("load rows for %s: %w", table, err)
	}

	prefix := table + "."
	rows := make([]ir.Row, len(raw))
	for i, row := range raw {
		q := row.Qualify(table)
		for _, c := range q.Columns() {
			if !strings.HasPrefix(c, prefix) {
				return nil, foreignColumnError(table, i, c)
			}
		}
		rows[i] = q
	}
	e.log.Debug("rows loaded", "table", table, "rows", len(rows))
	return rows, nil
}

// nullRow returns a row holding Null for every catalog column of table.
// It pads LEFT join output when no right row matches.
func (e *execution) nullRow(table string) ir.Row {
	t, _ := e.catalog.Table(table)
	pairs := make([]ir.Pair, len(t.Columns))
	for i, c := range t.Columns {
		pairs[i] = ir.O(c.Qualified(), ir.Null{})
	}
	return ir.NewRow(pairs...)
}

// join combines the accumulated rows with the rows of j.Table.
func (e *execution) join(left, right []ir.Row, j queryir.JoinClause) ([]ir.Row, error) {
	pairs := orient(j)
	e.budget.reset()

	var padding ir.Row
	if j.Kind == queryir.JoinLeft {
		padding = e.nullRow(j.Table)
	}

	var out []ir.Row
	for _, l := range left {
		matched := false
		for _, r := range right {
			if !matches(pairs, l, r) {
				continue
			}
			if err := e.budget.take(j.Table); err != nil {
				return nil, err
			}
			out = append(out, l.Merge(r))
			matched = true
		}
		if !matched && j.Kind == queryir.JoinLeft {
			if err := e.budget.take(j.Table); err != nil {
				return nil, err
			}
			out = append(out, l.Merge(padding))
		}
	}
	return out, nil
}
