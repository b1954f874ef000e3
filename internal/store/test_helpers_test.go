package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/perspective/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// flavorRow creates a flavor row with mixed value kinds.
func flavorRow(id, name string, vcpus int64) ir.Row {
	return ir.NewRow(
		ir.O("id", ir.NewString(id)),
		ir.O("project_id", ir.NewString("p1")),
		ir.O("name", ir.NewString(name)),
		ir.O("vcpus", ir.NewInt(vcpus)),
	)
}
