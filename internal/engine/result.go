package engine

import (
	"slices"

	"github.com/roach88/perspective/internal/ir"
)

// ResultSet is the ordered output of one execution. Columns are the
// projection labels; each row has exactly len(Columns) values.
type ResultSet struct {
	Columns []string
	Rows    [][]ir.Value
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	return len(r.Rows)
}

// Column returns all values of the labeled column in row order.
func (r *ResultSet) Column(label string) ([]ir.Value, bool) {
	idx := slices.Index(r.Columns, label)
	if idx < 0 {
		return nil, false
	}
	out := make([]ir.Value, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Records returns the rows as label-keyed maps of plain Go values, for
// encoding.
func (r *ResultSet) Records() []map[string]any {
	out := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		rec := make(map[string]any, len(r.Columns))
		for c, label := range r.Columns {
			rec[label] = ir.ToAny(row[c])
		}
		out[i] = rec
	}
	return out
}
