package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perspective/internal/engine"
	"github.com/roach88/perspective/internal/ir"
	"github.com/roach88/perspective/internal/testutil"
)

func TestReplace_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rows := []ir.Row{
		flavorRow("f2", "m1.large", 4),
		flavorRow("f1", "m1.small", 1),
	}
	rows[0].Set("ratio", ir.NewFloat(4.0))
	rows[0].Set("is_public", ir.Null{})

	require.NoError(t, s.Replace(ctx, "flavors", rows))

	got, err := s.Rows(ctx, "flavors")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, rows[0].Columns(), got[0].Columns(), "column order preserved")
	assert.Equal(t, ir.NewString("m1.large"), got[0].Value("name"))
	assert.Equal(t, ir.NewInt(4), got[0].Value("vcpus"))
	assert.Equal(t, ir.NewFloat(4.0), got[0].Value("ratio"), "float kind preserved")
	assert.Equal(t, ir.Null{}, got[0].Value("is_public"))
	assert.Equal(t, ir.NewString("m1.small"), got[1].Value("name"), "load order preserved")
}

func TestReplace_SwapsSnapshot(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, "flavors", []ir.Row{flavorRow("f1", "old", 1), flavorRow("f2", "old", 2)}))
	require.NoError(t, s.Replace(ctx, "flavors", []ir.Row{flavorRow("f3", "new", 3)}))

	got, err := s.Rows(ctx, "flavors")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ir.NewString("f3"), got[0].Value("id"))

	info, err := s.Table(ctx, "flavors")
	require.NoError(t, err)
	assert.Equal(t, TableInfo{Name: "flavors", Rows: 1, Generation: 2}, info)
}

func TestReplace_EmptyTableIsPresent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, "keypairs", nil))

	got, err := s.Rows(ctx, "keypairs")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplace_UnknownTable(t *testing.T) {
	s := createTestStore(t)

	err := s.Replace(context.Background(), "volumes", []ir.Row{flavorRow("f1", "x", 1)})

	require.Error(t, err)
	assert.True(t, IsUnknownTable(err))
}

func TestReplace_ManyRowsSpanBatches(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rows := make([]ir.Row, insertBatch*2+7)
	for i := range rows {
		rows[i] = ir.NewRow(ir.O("id", ir.NewInt(int64(i))))
	}
	require.NoError(t, s.Replace(ctx, "instances", rows))

	got, err := s.Rows(ctx, "instances")
	require.NoError(t, err)
	require.Len(t, got, len(rows))
	for i, row := range got {
		assert.Equal(t, ir.NewInt(int64(i)), row.Value("id"))
	}
}

func TestReplaceAll_IsAtomic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.ReplaceAll(ctx, map[string][]ir.Row{
		"flavors": {flavorRow("f1", "m1.small", 1)},
		"volumes": {flavorRow("v1", "disk", 1)},
	})
	require.Error(t, err)
	assert.True(t, IsUnknownTable(err))

	_, err = s.Rows(ctx, "flavors")
	assert.True(t, errors.Is(err, engine.ErrTableNotFound), "nothing written on failure")
}

func TestDrop(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, "flavors", []ir.Row{flavorRow("f1", "m1.small", 1)}))
	require.NoError(t, s.Drop(ctx, "flavors"))
	require.NoError(t, s.Drop(ctx, "flavors"), "dropping twice is a no-op")

	_, err := s.Rows(ctx, "flavors")
	assert.True(t, errors.Is(err, engine.ErrTableNotFound))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM inventory_rows").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestStore_AsRowSource(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	fleet := testutil.DemoFleet()
	require.NoError(t, s.ReplaceAll(ctx, fleet))

	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TableInfo{
		{Name: "instances", Rows: 2, Generation: 1},
		{Name: "projects", Rows: 1, Generation: 1},
	}, tables)

	got, err := s.Rows(ctx, "instances")
	require.NoError(t, err)
	assert.Equal(t, fleet["instances"], got)
}
