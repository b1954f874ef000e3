package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Row is an ordered mapping from column name to Value.
//
// Rows handed to the engine by a row source are treated as read-only.
// Set exists for construction; the engine only ever builds new rows
// through Merge and Project.
type Row struct {
	columns []string
	values  map[string]Value
}

// Pair is a column/value pair used for ordered Row construction.
type Pair struct {
	Column string
	Value  Value
}

// O is a shorthand for Pair for ergonomic construction.
// Example: NewRow(O("instances.id", NewString("1")), O("instances.name", NewString("web")))
func O(column string, value Value) Pair {
	return Pair{Column: column, Value: value}
}

// NewRow creates a row from pairs, keeping their order. A repeated
// column keeps its first position and its last value.
func NewRow(pairs ...Pair) Row {
	r := Row{
		columns: make([]string, 0, len(pairs)),
		values:  make(map[string]Value, len(pairs)),
	}
	for _, p := range pairs {
		r.Set(p.Column, p.Value)
	}
	return r
}

// RowFromMap creates a row from decoded data (YAML, JSON). Columns are
// ordered by name since maps carry no order.
func RowFromMap(m map[string]any) (Row, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	r := Row{
		columns: make([]string, 0, len(m)),
		values:  make(map[string]Value, len(m)),
	}
	for _, k := range keys {
		v, err := FromAny(m[k])
		if err != nil {
			return Row{}, fmt.Errorf("column %q: %w", k, err)
		}
		r.Set(k, v)
	}
	return r, nil
}

// Set assigns a column value, appending the column if new.
func (r *Row) Set(column string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if v == nil {
		v = Null{}
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = v
}

// Get returns the value of a column and whether it is present.
func (r Row) Get(column string) (Value, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Value returns the value of a column, or Null when absent.
func (r Row) Value(column string) Value {
	if v, ok := r.values[column]; ok {
		return v
	}
	return Null{}
}

// Columns returns the column names in row order.
func (r Row) Columns() []string {
	return slices.Clone(r.columns)
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.columns)
}

// Qualify returns a copy whose unqualified column names are prefixed
// with "table.". Already-qualified names are kept as is.
func (r Row) Qualify(table string) Row {
	out := Row{
		columns: make([]string, 0, len(r.columns)),
		values:  make(map[string]Value, len(r.columns)),
	}
	for _, c := range r.columns {
		name := c
		if !strings.Contains(c, ".") {
			name = table + "." + c
		}
		out.Set(name, r.values[c])
	}
	return out
}

// Merge returns a new row holding r's columns followed by other's.
// Neither input is modified.
func (r Row) Merge(other Row) Row {
	out := Row{
		columns: make([]string, 0, len(r.columns)+len(other.columns)),
		values:  make(map[string]Value, len(r.columns)+len(other.columns)),
	}
	for _, c := range r.columns {
		out.Set(c, r.values[c])
	}
	for _, c := range other.columns {
		out.Set(c, other.values[c])
	}
	return out
}

// Map returns the row as a plain map, for encoding.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for _, c := range r.columns {
		m[c] = ToAny(r.values[c])
	}
	return m
}

func (r Row) String() string {
	parts := make([]string, len(r.columns))
	for i, c := range r.columns {
		parts[i] = c + "=" + r.values[c].String()
	}
	return "Row{" + strings.Join(parts, ", ") + "}"
}
