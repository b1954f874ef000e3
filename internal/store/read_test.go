package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/perspective/internal/engine"
)

func TestRows_NeverLoaded(t *testing.T) {
	s := createTestStore(t)

	rows, err := s.Rows(context.Background(), "instances")
	if !errors.Is(err, engine.ErrTableNotFound) {
		t.Fatalf("Rows() error = %v, want ErrTableNotFound", err)
	}
	if rows != nil {
		t.Errorf("Rows() = %v, want nil", rows)
	}
}

func TestTables_Empty(t *testing.T) {
	s := createTestStore(t)

	tables, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables() failed: %v", err)
	}
	if tables == nil {
		t.Error("tables is nil, want empty slice")
	}
	if len(tables) != 0 {
		t.Errorf("len(tables) = %d, want 0", len(tables))
	}
}

func TestRows_CorruptData(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.db.Exec(`INSERT INTO inventory_tables (table_name, row_count) VALUES ('images', 1)`); err != nil {
		t.Fatalf("insert table: %v", err)
	}
	if _, err := s.db.Exec(`INSERT INTO inventory_rows (table_name, seq, data) VALUES ('images', 0, '{"not":"cells"}')`); err != nil {
		t.Fatalf("insert row: %v", err)
	}

	if _, err := s.Rows(ctx, "images"); err == nil {
		t.Fatal("Rows() succeeded on corrupt data, want error")
	}
}
