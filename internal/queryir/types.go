package queryir

import (
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/perspective/internal/function"
	"github.com/roach88/perspective/internal/ir"
)

// Expr is a projected expression.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern enables exhaustive type switches in the
// executor and the text renderer.
//
// Expr types:
//   - ColumnRef: a qualified column, e.g. instances.name
//   - Literal: a constant value
//   - Call: a registered scalar function applied to expressions
type Expr interface {
	exprNode() // Marker method - seals interface to this package

	// String renders the expression in query syntax. It doubles as the
	// result-set column label.
	String() string
}

// ColumnRef references a column by table and name. Every column
// reference in a statement is table-qualified.
type ColumnRef struct {
	Table  string
	Column string
}

func (ColumnRef) exprNode() {}

// Col builds a ColumnRef from "table.column". It does not validate;
// Builder.Build does.
func Col(qualified string) ColumnRef {
	table, column, _ := strings.Cut(qualified, ".")
	return ColumnRef{Table: table, Column: column}
}

// Qualified returns "table.column".
func (c ColumnRef) Qualified() string {
	return c.Table + "." + c.Column
}

func (c ColumnRef) String() string {
	return c.Qualified()
}

// Literal is a constant expression.
type Literal struct {
	Value ir.Value
}

func (Literal) exprNode() {}

func (l Literal) String() string {
	return FormatLiteral(l.Value)
}

// Call applies a registered function to argument expressions.
type Call struct {
	Function function.Function
	Args     []Expr
}

func (Call) exprNode() {}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Function.Name() + "(" + strings.Join(args, ", ") + ")"
}

// FormatLiteral renders a value as query text: strings double-quoted
// with backslash escapes, floats always carrying a decimal point so
// they parse back as floats.
func FormatLiteral(v ir.Value) string {
	switch val := v.(type) {
	case ir.String:
		var sb strings.Builder
		sb.WriteByte('"')
		for _, r := range string(val) {
			if r == '"' || r == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('"')
		return sb.String()
	case ir.Int:
		return val.String()
	case ir.Float:
		s := strconv.FormatFloat(float64(val), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s
	default:
		return "NULL"
	}
}

// JoinKind is the kind of a join clause.
type JoinKind int

const (
	// JoinInner emits only combined rows where every condition matches.
	JoinInner JoinKind = iota
	// JoinLeft emits every left row at least once, padding with nulls.
	JoinLeft
)

func (k JoinKind) String() string {
	if k == JoinLeft {
		return "LEFT"
	}
	return "INNER"
}

// Condition is one equality pair of a join.
type Condition struct {
	Left  ColumnRef
	Right ColumnRef
}

func (c Condition) String() string {
	return c.Left.String() + " = " + c.Right.String()
}

// JoinClause joins the accumulated rows with Table. All conditions are
// ANDed, which supports composite keys.
type JoinClause struct {
	Kind  JoinKind
	Table string
	On    []Condition
}

func (j JoinClause) clone() JoinClause {
	j.On = slices.Clone(j.On)
	return j
}

// Match is one column's accepted value set within a WhereClause.
type Match struct {
	Column ColumnRef
	Values []ir.Value
}

// Contains reports whether v equals any accepted value.
func (m Match) Contains(v ir.Value) bool {
	for _, want := range m.Values {
		if ir.Equal(v, want) {
			return true
		}
	}
	return false
}

// WhereClause maps columns to non-empty sets of accepted values.
//
// A row satisfies the clause iff, for every column, the row's value is a
// member of that column's set (OR within a column, AND across columns).
// Column order is the order of first mention.
type WhereClause struct {
	matches []Match
}

// Matches returns a copy of the column matches in order.
func (w WhereClause) Matches() []Match {
	out := make([]Match, len(w.matches))
	for i, m := range w.matches {
		out[i] = Match{Column: m.Column, Values: slices.Clone(m.Values)}
	}
	return out
}

// Len returns the number of constrained columns.
func (w WhereClause) Len() int {
	return len(w.matches)
}

// Satisfied reports whether row passes the clause.
func (w WhereClause) Satisfied(row ir.Row) bool {
	for _, m := range w.matches {
		if !m.Contains(row.Value(m.Column.Qualified())) {
			return false
		}
	}
	return true
}

// add unions values into the column's set, creating it if needed.
// Duplicates (same kind and value) are dropped.
func (w *WhereClause) add(col ColumnRef, values []ir.Value) {
	idx := slices.IndexFunc(w.matches, func(m Match) bool { return m.Column == col })
	if idx < 0 {
		w.matches = append(w.matches, Match{Column: col})
		idx = len(w.matches) - 1
	}
	for _, v := range values {
		if !slices.Contains(w.matches[idx].Values, v) {
			w.matches[idx].Values = append(w.matches[idx].Values, v)
		}
	}
}

// Statement is an immutable query: projection, source table, ordered
// joins, optional filter and optional ascending order column.
//
// Statements are produced by Builder.Build (directly or through the
// parser) and never change afterwards; accessors return copies.
type Statement struct {
	columns []Expr
	source  string
	joins   []JoinClause
	where   *WhereClause
	order   *ColumnRef
}

// Columns returns the projected expressions in order.
func (s *Statement) Columns() []Expr {
	return slices.Clone(s.columns)
}

// Labels returns the result-set column names in projection order.
func (s *Statement) Labels() []string {
	labels := make([]string, len(s.columns))
	for i, c := range s.columns {
		labels[i] = c.String()
	}
	return labels
}

// Source returns the FROM table.
func (s *Statement) Source() string {
	return s.source
}

// Joins returns a copy of the join clauses in order.
func (s *Statement) Joins() []JoinClause {
	out := make([]JoinClause, len(s.joins))
	for i, j := range s.joins {
		out[i] = j.clone()
	}
	return out
}

// Where returns the filter and whether one is present.
func (s *Statement) Where() (WhereClause, bool) {
	if s.where == nil {
		return WhereClause{}, false
	}
	return WhereClause{matches: s.where.Matches()}, true
}

// OrderBy returns the order column and whether one is present.
func (s *Statement) OrderBy() (ColumnRef, bool) {
	if s.order == nil {
		return ColumnRef{}, false
	}
	return *s.order, true
}

// Tables returns the source table followed by joined tables.
func (s *Statement) Tables() []string {
	tables := make([]string, 0, 1+len(s.joins))
	tables = append(tables, s.source)
	for _, j := range s.joins {
		tables = append(tables, j.Table)
	}
	return tables
}
