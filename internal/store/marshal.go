package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/perspective/internal/ir"
)

// marshalRow converts a row to canonical JSON TEXT for storage.
//
// The row is stored as an array of [column, kind, value] triples so that
// column order and the Int/Float distinction survive a round trip:
//
//	[["id","string","vm-1"],["vcpus","int",2]]
func marshalRow(row ir.Row) (string, error) {
	cells := make([]any, 0, row.Len())
	for _, col := range row.Columns() {
		v := row.Value(col)
		cells = append(cells, []any{col, v.Kind().String(), v})
	}
	data, err := ir.MarshalCanonical(cells)
	if err != nil {
		return "", fmt.Errorf("marshal row: %w", err)
	}
	return string(data), nil
}

// unmarshalRow parses TEXT written by marshalRow.
// Numbers are decoded via json.Number to avoid float64 precision loss
// for integers > 2^53.
func unmarshalRow(data string) (ir.Row, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var cells [][]any
	if err := dec.Decode(&cells); err != nil {
		return ir.Row{}, fmt.Errorf("unmarshal row: %w", err)
	}

	var row ir.Row
	for i, cell := range cells {
		if len(cell) != 3 {
			return ir.Row{}, fmt.Errorf("unmarshal row: cell %d has %d elements, want 3", i, len(cell))
		}
		col, ok := cell[0].(string)
		if !ok {
			return ir.Row{}, fmt.Errorf("unmarshal row: cell %d column is %T", i, cell[0])
		}
		kindName, ok := cell[1].(string)
		if !ok {
			return ir.Row{}, fmt.Errorf("unmarshal row: column %q kind is %T", col, cell[1])
		}
		kind, err := ir.ParseKind(kindName)
		if err != nil {
			return ir.Row{}, fmt.Errorf("unmarshal row: column %q: %w", col, err)
		}
		raw, err := ir.FromAny(cell[2])
		if err != nil {
			return ir.Row{}, fmt.Errorf("unmarshal row: column %q: %w", col, err)
		}
		v, err := ir.Convert(raw, kind)
		if err != nil {
			return ir.Row{}, fmt.Errorf("unmarshal row: column %q: %w", col, err)
		}
		row.Set(col, v)
	}
	return row, nil
}
