package queryir

import (
	"slices"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/ir"
)

// Builder constructs a Statement programmatically. It is the structured
// equivalent of parsing: Build validates against the same catalog rules
// and fails with the same IllegalQueryError.
//
// Usage:
//
//	stmt, err := queryir.NewBuilder(cat).
//	    Select("instances.name", "projects.name").
//	    From("instances").
//	    InnerJoin("projects").On("instances.project_id", "projects.id").
//	    Where("projects.name", ir.NewString("demo")).
//	    OrderBy("instances.name").
//	    Build()
//
// A Builder is not safe for concurrent use. Statements it returns are
// immutable and independent of later builder calls.
type Builder struct {
	catalog *catalog.Catalog
	columns []Expr
	source  string
	joins   []JoinClause
	where   WhereClause
	order   *ColumnRef
	issues  []*IllegalQueryError
}

// NewBuilder returns an empty builder validating against cat.
func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{catalog: cat}
}

// Select appends qualified column references to the projection.
func (b *Builder) Select(columns ...string) *Builder {
	for _, c := range columns {
		b.columns = append(b.columns, Col(c))
	}
	return b
}

// SelectExpr appends arbitrary expressions to the projection.
func (b *Builder) SelectExpr(exprs ...Expr) *Builder {
	b.columns = append(b.columns, exprs...)
	return b
}

// From sets the source table.
func (b *Builder) From(table string) *Builder {
	b.source = table
	return b
}

// InnerJoin starts an INNER join with table. Conditions follow via On/And.
func (b *Builder) InnerJoin(table string) *Builder {
	return b.join(JoinInner, table)
}

// LeftJoin starts a LEFT join with table. Conditions follow via On/And.
func (b *Builder) LeftJoin(table string) *Builder {
	return b.join(JoinLeft, table)
}

func (b *Builder) join(kind JoinKind, table string) *Builder {
	b.joins = append(b.joins, JoinClause{Kind: kind, Table: table})
	return b
}

// On adds an equality condition to the most recent join.
func (b *Builder) On(left, right string) *Builder {
	if len(b.joins) == 0 {
		b.issues = append(b.issues,
			NewIllegalQuery(ErrCodeBadJoin, "ON %s = %s without a preceding JOIN", left, right))
		return b
	}
	last := &b.joins[len(b.joins)-1]
	last.On = append(last.On, Condition{Left: Col(left), Right: Col(right)})
	return b
}

// And adds another condition to the most recent join, forming a
// composite key. It is an alias for On.
func (b *Builder) And(left, right string) *Builder {
	return b.On(left, right)
}

// Where restricts column to values. Repeated calls for the same column
// union the sets; duplicate values are dropped.
func (b *Builder) Where(column string, values ...ir.Value) *Builder {
	if len(values) == 0 {
		b.issues = append(b.issues,
			NewIllegalQuery(ErrCodeBadFilter, "no accepted values for %s", column))
		return b
	}
	b.where.add(Col(column), values)
	return b
}

// WhereStrings is Where with string values.
func (b *Builder) WhereStrings(column string, values ...string) *Builder {
	vals := make([]ir.Value, len(values))
	for i, v := range values {
		vals[i] = ir.NewString(v)
	}
	return b.Where(column, vals...)
}

// WhereMap adds a filter per map entry in sorted key order so the
// resulting statement is deterministic. Entries with no values are
// skipped; an empty filter set means "no restriction" here.
func (b *Builder) WhereMap(filters map[string][]string) *Builder {
	keys := make([]string, 0, len(filters))
	for k, v := range filters {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.WhereStrings(k, filters[k]...)
	}
	return b
}

// OrderBy sets the ascending order column, replacing any previous one.
func (b *Builder) OrderBy(column string) *Builder {
	ref := Col(column)
	b.order = &ref
	return b
}

// Build validates the accumulated statement and returns an immutable
// copy of it.
func (b *Builder) Build() (*Statement, error) {
	s := &Statement{
		columns: slices.Clone(b.columns),
		source:  b.source,
		joins:   make([]JoinClause, len(b.joins)),
	}
	for i, j := range b.joins {
		s.joins[i] = j.clone()
	}
	if b.where.Len() > 0 {
		w := WhereClause{matches: b.where.Matches()}
		s.where = &w
	}
	if b.order != nil {
		ref := *b.order
		s.order = &ref
	}

	v := &validator{cat: b.catalog, scope: make(map[string]bool)}
	v.issues = append(v.issues, b.issues...)
	v.validate(s)
	if err := v.err(); err != nil {
		return nil, err
	}
	return s, nil
}
