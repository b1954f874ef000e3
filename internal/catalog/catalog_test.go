package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perspective/internal/ir"
)

func TestDefault_InventoryTables(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	var names []string
	for _, tbl := range c.Tables() {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{
		TableInstances, TableProjects, TableFlavors,
		TableImages, TableNetworks, TableKeypairs,
	}, names)
}

func TestDefault_ColumnKinds(t *testing.T) {
	c := MustDefault()

	col, ok := c.Column("flavors.vcpus")
	require.True(t, ok)
	assert.Equal(t, ir.KindInt, col.Kind)
	assert.Equal(t, "flavors", col.Table)

	col, ok = c.Column("instances.name")
	require.True(t, ok)
	assert.Equal(t, ir.KindString, col.Kind, "type defaults to string")
}

func TestDefault_IsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestCatalog_ColumnLookupFailures(t *testing.T) {
	c := MustDefault()

	tests := []string{
		"instances",          // not qualified
		"instances.",         // empty column
		".name",              // empty table
		"servers.name",       // unknown table
		"instances.nickname", // unknown column
		"instances.name.x",   // too many parts
	}
	for _, ref := range tests {
		t.Run(ref, func(t *testing.T) {
			_, ok := c.Column(ref)
			assert.False(t, ok)
		})
	}
}

func TestTable_QualifiedNames(t *testing.T) {
	tbl, ok := MustDefault().Table(TableProjects)
	require.True(t, ok)
	assert.Equal(t, []string{
		"projects.id", "projects.name", "projects.cloud_id", "projects.cloud_type",
	}, tbl.QualifiedNames())
}

func TestNew_Duplicates(t *testing.T) {
	_, err := New(Table{Name: "a", Columns: []Column{{Name: "id"}}}, Table{Name: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate table")

	_, err = New(Table{Name: "a", Columns: []Column{{Name: "id"}, {Name: "id"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestSplitQualified(t *testing.T) {
	table, column, ok := SplitQualified("images.name")
	require.True(t, ok)
	assert.Equal(t, "images", table)
	assert.Equal(t, "name", column)
}

func TestCompileString_Custom(t *testing.T) {
	src := `
tables: [{
	name: "volumes"
	columns: [{name: "id"}, {name: "size", type: "int"}]
}]
`
	c, err := CompileString(src, "volumes.cue")
	require.NoError(t, err)

	tbl, ok := c.Table("volumes")
	require.True(t, ok)
	require.Len(t, tbl.Columns, 2)
	assert.Equal(t, ir.KindInt, tbl.Columns[1].Kind)
}

func TestCompileString_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `tables: [`},
		{"missing tables", `other: 1`},
		{"missing name", `tables: [{columns: [{name: "id"}]}]`},
		{"no columns", `tables: [{name: "t", columns: []}]`},
		{"bad type", `tables: [{name: "t", columns: [{name: "id", type: "bool"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileString(tt.src, "bad.cue")
			assert.Error(t, err)
		})
	}
}
