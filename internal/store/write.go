package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/perspective/internal/ir"
)

// insertBatch bounds the rows per INSERT to stay under SQLite's
// host parameter limit.
const insertBatch = 200

// Replace swaps the stored snapshot of table for rows in one transaction.
// An empty rows slice leaves the table present but empty.
//
// Tables unknown to the catalog are rejected with UnknownTableError.
func (s *Store) Replace(ctx context.Context, table string, rows []ir.Row) error {
	if err := s.checkTable(table); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return replaceTable(ctx, tx, table, rows)
	})
}

// ReplaceAll replaces several tables in one transaction, in name order.
// Either every table is replaced or none is.
func (s *Store) ReplaceAll(ctx context.Context, tables map[string][]ir.Row) error {
	names := make([]string, 0, len(tables))
	for name := range tables {
		if err := s.checkTable(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	slices.Sort(names)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, name := range names {
			if err := replaceTable(ctx, tx, name, tables[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Drop removes a table's snapshot. Dropping an absent table is a no-op.
func (s *Store) Drop(ctx context.Context, table string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, from := range []string{"inventory_rows", "inventory_tables"} {
			query, args, err := sq.Delete(from).Where(sq.Eq{"table_name": table}).ToSql()
			if err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Store) checkTable(table string) error {
	if _, ok := s.catalog.Table(table); !ok {
		return &UnknownTableError{Table: table}
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func replaceTable(ctx context.Context, tx *sql.Tx, table string, rows []ir.Row) error {
	query, args, err := sq.Delete("inventory_rows").Where(sq.Eq{"table_name": table}).ToSql()
	if err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace %s: clear rows: %w", table, err)
	}

	query, args, err = sq.Insert("inventory_tables").
		Columns("table_name", "row_count").
		Values(table, len(rows)).
		Suffix("ON CONFLICT(table_name) DO UPDATE SET row_count = excluded.row_count, generation = generation + 1").
		ToSql()
	if err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace %s: record table: %w", table, err)
	}

	for start := 0; start < len(rows); start += insertBatch {
		end := min(start+insertBatch, len(rows))
		insert := sq.Insert("inventory_rows").Columns("table_name", "seq", "data")
		for seq := start; seq < end; seq++ {
			data, err := marshalRow(rows[seq])
			if err != nil {
				return fmt.Errorf("replace %s: row %d: %w", table, seq, err)
			}
			insert = insert.Values(table, seq, data)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("replace %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("replace %s: insert rows: %w", table, err)
		}
	}
	return nil
}
