package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRow_PreservesOrder(t *testing.T) {
	r := NewRow(
		O("instances.name", String("web")),
		O("instances.id", Int(1)),
	)

	assert.Equal(t, []string{"instances.name", "instances.id"}, r.Columns())
	assert.Equal(t, 2, r.Len())

	v, ok := r.Get("instances.id")
	require.True(t, ok)
	assert.Equal(t, Int(1), v)
}

func TestRow_ValueAbsentIsNull(t *testing.T) {
	r := NewRow(O("projects.id", Int(9)))

	_, ok := r.Get("projects.name")
	assert.False(t, ok)
	assert.Equal(t, Null{}, r.Value("projects.name"))
}

func TestRow_SetNilStoresNull(t *testing.T) {
	var r Row
	r.Set("a.b", nil)
	assert.Equal(t, Null{}, r.Value("a.b"))
	assert.Equal(t, []string{"a.b"}, r.Columns())
}

func TestRowFromMap_SortsColumns(t *testing.T) {
	r, err := RowFromMap(map[string]any{"name": "demo", "id": 9})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, r.Columns())
	assert.Equal(t, Int(9), r.Value("id"))
	assert.Equal(t, String("demo"), r.Value("name"))
}

func TestRowFromMap_RejectsUnsupported(t *testing.T) {
	_, err := RowFromMap(map[string]any{"tags": []string{"a"}})
	assert.Error(t, err)
}

func TestRow_Qualify(t *testing.T) {
	r := NewRow(O("id", Int(1)), O("projects.id", Int(9)))
	q := r.Qualify("instances")

	assert.Equal(t, []string{"instances.id", "projects.id"}, q.Columns())
	// original untouched
	assert.Equal(t, []string{"id", "projects.id"}, r.Columns())
}

func TestRow_MergeDoesNotMutate(t *testing.T) {
	left := NewRow(O("instances.id", Int(1)))
	right := NewRow(O("projects.id", Int(9)))

	merged := left.Merge(right)

	assert.Equal(t, []string{"instances.id", "projects.id"}, merged.Columns())
	assert.Equal(t, 1, left.Len())
	assert.Equal(t, 1, right.Len())
}

func TestRow_Map(t *testing.T) {
	r := NewRow(O("a.x", String("s")), O("a.y", Int(2)), O("a.z", Null{}))
	assert.Equal(t, map[string]any{"a.x": "s", "a.y": int64(2), "a.z": nil}, r.Map())
}
