package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/perspective/internal/engine"
	"github.com/roach88/perspective/internal/ir"
)

// TableInfo describes a stored snapshot.
type TableInfo struct {
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	Generation int    `json:"generation"`
}

// Rows returns the stored rows of table in load order.
// Implements engine.RowSource: a table that was never loaded yields an
// error wrapping engine.ErrTableNotFound.
func (s *Store) Rows(ctx context.Context, table string) ([]ir.Row, error) {
	info, err := s.Table(ctx, table)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("data").
		From("inventory_rows").
		Where(sq.Eq{"table_name": table}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	out := make([]ir.Row, 0, info.Rows)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("read %s: scan: %w", table, err)
		}
		row, err := unmarshalRow(data)
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", table, len(out), err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: iterate: %w", table, err)
	}
	return out, nil
}

// Table returns the snapshot metadata of one table.
func (s *Store) Table(ctx context.Context, table string) (TableInfo, error) {
	query, args, err := sq.Select("table_name", "row_count", "generation").
		From("inventory_tables").
		Where(sq.Eq{"table_name": table}).
		ToSql()
	if err != nil {
		return TableInfo{}, fmt.Errorf("read %s: %w", table, err)
	}

	var info TableInfo
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&info.Name, &info.Rows, &info.Generation)
	if errors.Is(err, sql.ErrNoRows) {
		return TableInfo{}, fmt.Errorf("%w: %s", engine.ErrTableNotFound, table)
	}
	if err != nil {
		return TableInfo{}, fmt.Errorf("read %s: %w", table, err)
	}
	return info, nil
}

// Tables lists the loaded tables ordered by name.
// Returns an empty slice (not nil) when nothing is loaded.
func (s *Store) Tables(ctx context.Context) ([]TableInfo, error) {
	query, args, err := sq.Select("table_name", "row_count", "generation").
		From("inventory_tables").
		OrderBy("table_name COLLATE BINARY ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := []TableInfo{}
	for rows.Next() {
		var info TableInfo
		if err := rows.Scan(&info.Name, &info.Rows, &info.Generation); err != nil {
			return nil, fmt.Errorf("list tables: scan: %w", err)
		}
		tables = append(tables, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: iterate: %w", err)
	}
	return tables, nil
}

var _ engine.RowSource = (*Store)(nil)
