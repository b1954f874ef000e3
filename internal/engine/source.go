package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/ir"
)

// ErrTableNotFound is returned by a RowSource that has no rows for a
// table, as opposed to an empty table.
var ErrTableNotFound = errors.New("table not found in row source")

// RowSource supplies the rows currently known for a table.
//
// Implementations return ErrTableNotFound (possibly wrapped) when the
// table is absent. The returned slice is treated as a read-only
// snapshot for the duration of one execution.
type RowSource interface {
	Rows(ctx context.Context, table string) ([]ir.Row, error)
}

// RowSourceFunc adapts a function to RowSource.
type RowSourceFunc func(ctx context.Context, table string) ([]ir.Row, error)

// Rows implements RowSource.
func (f RowSourceFunc) Rows(ctx context.Context, table string) ([]ir.Row, error) {
	return f(ctx, table)
}

// MapSource is an in-memory RowSource keyed by table name.
// A present key with an empty slice is an empty table.
type MapSource map[string][]ir.Row

// Rows implements RowSource.
func (m MapSource) Rows(_ context.Context, table string) ([]ir.Row, error) {
	rows, ok := m[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return rows, nil
}

// MapSourceFromRecords builds a MapSource from decoded records such as
// a YAML inventory file. Cells of numeric catalog columns are converted
// to the column's kind; a cell that cannot be converted fails with a
// wrapped ir.TypeMismatchError. Nulls, string columns and tables or
// columns unknown to cat are kept as decoded. A nil cat converts nothing.
func MapSourceFromRecords(cat *catalog.Catalog, tables map[string][]map[string]any) (MapSource, error) {
	src := make(MapSource, len(tables))
	for table, records := range tables {
		kinds := numericKinds(cat, table)
		rows := make([]ir.Row, 0, len(records))
		for i, rec := range records {
			row, err := ir.RowFromMap(rec)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", table, i, err)
			}
			if err := conform(&row, kinds); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", table, i, err)
			}
			rows = append(rows, row)
		}
		src[table] = rows
	}
	return src, nil
}

// numericKinds maps the int and float columns of table to their kind,
// under both bare and qualified names.
func numericKinds(cat *catalog.Catalog, table string) map[string]ir.Kind {
	if cat == nil {
		return nil
	}
	t, ok := cat.Table(table)
	if !ok {
		return nil
	}
	kinds := make(map[string]ir.Kind)
	for _, c := range t.Columns {
		if c.Kind == ir.KindInt || c.Kind == ir.KindFloat {
			kinds[c.Name] = c.Kind
			kinds[c.Qualified()] = c.Kind
		}
	}
	return kinds
}

func conform(row *ir.Row, kinds map[string]ir.Kind) error {
	for _, c := range row.Columns() {
		kind, ok := kinds[c]
		v := row.Value(c)
		if !ok || ir.IsNull(v) {
			continue
		}
		converted, err := ir.Convert(v, kind)
		if err != nil {
			return fmt.Errorf("column %q: %w", c, err)
		}
		row.Set(c, converted)
	}
	return nil
}
