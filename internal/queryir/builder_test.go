package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/function"
	"github.com/roach88/perspective/internal/ir"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

// TestBuilder_FindInstancesShape tests the composite-key statement used by
// the instance listing.
func TestBuilder_FindInstancesShape(t *testing.T) {
	stmt, err := NewBuilder(testCatalog(t)).
		Select("instances.id", "instances.name", "projects.name", "flavors.name", "images.name").
		From("instances").
		InnerJoin("projects").On("instances.project_id", "projects.id").
		LeftJoin("flavors").On("instances.flavor_id", "flavors.id").And("instances.project_id", "flavors.project_id").
		LeftJoin("images").On("instances.image_id", "images.id").
		WhereStrings("instances.state", "ACTIVE", "SHUTOFF").
		OrderBy("instances.name").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "instances", stmt.Source())
	joins := stmt.Joins()
	require.Len(t, joins, 3)
	assert.Equal(t, JoinInner, joins[0].Kind)
	assert.Equal(t, JoinLeft, joins[1].Kind)
	assert.Len(t, joins[1].On, 2)
	order, ok := stmt.OrderBy()
	require.True(t, ok)
	assert.Equal(t, Col("instances.name"), order)
}

func TestBuilder_ConditionEitherOrder(t *testing.T) {
	_, err := NewBuilder(testCatalog(t)).
		Select("instances.name").
		From("instances").
		InnerJoin("projects").On("projects.id", "instances.project_id").
		Build()

	assert.NoError(t, err)
}

func TestBuilder_WhereMapSortedAndSkipsEmpty(t *testing.T) {
	stmt, err := NewBuilder(testCatalog(t)).
		Select("instances.name").
		From("instances").
		WhereMap(map[string][]string{
			"instances.state": {"ACTIVE"},
			"instances.name":  {"web", "db"},
			"instances.id":    nil,
		}).
		Build()
	require.NoError(t, err)

	where, ok := stmt.Where()
	require.True(t, ok)
	matches := where.Matches()
	require.Len(t, matches, 2)
	assert.Equal(t, "instances.name", matches[0].Column.Qualified())
	assert.Equal(t, "instances.state", matches[1].Column.Qualified())
}

func TestBuilder_IsReusableAfterBuild(t *testing.T) {
	b := NewBuilder(testCatalog(t)).Select("instances.name").From("instances")
	first, err := b.Build()
	require.NoError(t, err)

	b.Select("instances.state")
	second, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"instances.name"}, first.Labels())
	assert.Equal(t, []string{"instances.name", "instances.state"}, second.Labels())
}

func TestBuilder_SelectExpr(t *testing.T) {
	stmt, err := NewBuilder(testCatalog(t)).
		SelectExpr(
			Col("flavors.name"),
			Call{Function: function.Log10(), Args: []Expr{Col("flavors.ram")}},
			Literal{Value: ir.NewString("x")},
		).
		From("flavors").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"flavors.name", "LOG10(flavors.ram)", `"x"`}, stmt.Labels())
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) *Builder
		code  ErrorCode
	}{
		{
			name: "missing FROM",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name")
			},
			code: ErrCodeSyntax,
		},
		{
			name: "unknown source table",
			build: func(b *Builder) *Builder {
				return b.Select("servers.name").From("servers")
			},
			code: ErrCodeUnknownTable,
		},
		{
			name: "unknown column",
			build: func(b *Builder) *Builder {
				return b.Select("instances.colour").From("instances")
			},
			code: ErrCodeUnknownColumn,
		},
		{
			name: "unqualified column",
			build: func(b *Builder) *Builder {
				return b.Select("name").From("instances")
			},
			code: ErrCodeUnknownColumn,
		},
		{
			name: "column of table outside scope",
			build: func(b *Builder) *Builder {
				return b.Select("projects.name").From("instances")
			},
			code: ErrCodeUnknownTable,
		},
		{
			name: "empty projection",
			build: func(b *Builder) *Builder {
				return b.From("instances")
			},
			code: ErrCodeEmptyProjection,
		},
		{
			name: "join without condition",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").InnerJoin("projects")
			},
			code: ErrCodeBadJoin,
		},
		{
			name: "ON without JOIN",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").On("instances.id", "projects.id")
			},
			code: ErrCodeBadJoin,
		},
		{
			name: "condition not touching joined table",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").
					InnerJoin("projects").On("instances.project_id", "instances.id")
			},
			code: ErrCodeBadJoin,
		},
		{
			name: "condition referencing later table",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").
					InnerJoin("projects").On("projects.id", "flavors.project_id").
					InnerJoin("flavors").On("flavors.id", "instances.flavor_id")
			},
			code: ErrCodeBadJoin,
		},
		{
			name: "table joined twice",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").
					InnerJoin("instances").On("instances.id", "instances.id")
			},
			code: ErrCodeBadJoin,
		},
		{
			name: "join with unknown column",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").
					InnerJoin("projects").On("instances.tenant", "projects.id")
			},
			code: ErrCodeUnknownColumn,
		},
		{
			name: "where without values",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").Where("instances.state")
			},
			code: ErrCodeBadFilter,
		},
		{
			name: "where with NULL",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").Where("instances.state", ir.Null{})
			},
			code: ErrCodeBadFilter,
		},
		{
			name: "order by unknown column",
			build: func(b *Builder) *Builder {
				return b.Select("instances.name").From("instances").OrderBy("instances.rank")
			},
			code: ErrCodeUnknownColumn,
		},
		{
			name: "literal function arguments rejected",
			build: func(b *Builder) *Builder {
				return b.SelectExpr(Call{
					Function: function.Log10(),
					Args:     []Expr{Literal{Value: ir.NewInt(0)}},
				}).From("instances")
			},
			code: ErrCodeFunction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := tt.build(NewBuilder(testCatalog(t))).Build()

			require.Error(t, err)
			assert.Nil(t, stmt)
			assert.True(t, IsIllegalQuery(err))
			assert.Equal(t, tt.code, ErrorCodeOf(err), err.Error())
		})
	}
}

func TestBuilder_ReportsEveryProblem(t *testing.T) {
	_, err := NewBuilder(testCatalog(t)).
		Select("instances.colour", "instances.size").
		From("instances").
		Build()
	require.Error(t, err)

	var iq *IllegalQueryError
	require.ErrorAs(t, err, &iq)
	assert.Equal(t, ErrCodeUnknownColumn, iq.Code)
	assert.Len(t, iq.Violations, 2)
	assert.Contains(t, err.Error(), "instances.colour")
	assert.Contains(t, err.Error(), "also: unknown column instances.size")
}
