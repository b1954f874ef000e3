package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/function"
	"github.com/roach88/perspective/internal/ir"
)

// Validate checks every table and column reference of a statement
// against the catalog, plus join shape, filter sets and function calls.
//
// Builder.Build runs it before returning a Statement; the executor runs
// it again because statements can reach it without going through a
// parser. Validate is a pure function with no side effects.
func Validate(s *Statement, cat *catalog.Catalog) error {
	v := &validator{cat: cat, scope: make(map[string]bool)}
	v.validate(s)
	return v.err()
}

// CheckCall validates a function call. Literal arguments are checked by
// the function's own ValidateInput now. Arguments taken from columns or
// nested calls are left for per-row validation at execution, after the
// arity check.
func CheckCall(c Call) error {
	if c.Function == nil {
		return NewIllegalQuery(ErrCodeFunction, "call without a function")
	}

	values := make([]ir.Value, len(c.Args))
	partial := false
	for i, arg := range c.Args {
		if lit, ok := arg.(Literal); ok {
			values[i] = lit.Value
			continue
		}
		partial = true
	}

	if arity := c.Function.Arity(); partial && !arity.Accepts(len(c.Args)) {
		return NewIllegalQuery(ErrCodeFunction,
			"%s requires %s argument(s) but %d were given",
			c.Function.Name(), arity, len(c.Args)).
			WithDetail("function", c.Function.Name())
	}

	if violations := c.Function.ValidateInput(values); len(violations) > 0 {
		return &IllegalQueryError{
			Code:       ErrCodeFunction,
			Message:    fmt.Sprintf("invalid arguments for %s", c.Function.Signature()),
			Violations: violations,
			Details:    map[string]string{"function": c.Function.Name()},
			Err:        &function.ValidationError{Function: c.Function.Name(), Violations: violations},
		}
	}
	return nil
}

// validator accumulates problems during traversal.
type validator struct {
	cat    *catalog.Catalog
	scope  map[string]bool
	issues []*IllegalQueryError
}

func (v *validator) add(err error) {
	if iq, ok := err.(*IllegalQueryError); ok {
		v.issues = append(v.issues, iq)
		return
	}
	v.issues = append(v.issues, &IllegalQueryError{Code: ErrCodeSyntax, Message: err.Error(), Err: err})
}

func (v *validator) addf(code ErrorCode, format string, args ...any) {
	v.issues = append(v.issues, NewIllegalQuery(code, format, args...))
}

// err merges the issues into one error led by the first problem.
func (v *validator) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	if len(v.issues) == 1 {
		return v.issues[0]
	}

	first := v.issues[0]
	merged := &IllegalQueryError{
		Code:    first.Code,
		Message: first.Message,
		Details: first.Details,
		Err:     first.Err,
	}
	for _, issue := range v.issues {
		if len(issue.Violations) == 0 || issue.Violations[0] != issue.Message {
			merged.Violations = append(merged.Violations, issue.Message)
			continue
		}
		merged.Violations = append(merged.Violations, issue.Violations...)
	}
	return merged
}

func (v *validator) validate(s *Statement) {
	if s == nil {
		v.addf(ErrCodeSyntax, "nil statement")
		return
	}

	v.validateSource(s.source)
	for _, j := range s.joins {
		v.validateJoin(j)
	}

	if len(s.columns) == 0 {
		v.addf(ErrCodeEmptyProjection, "at least one column must be selected")
	}
	for _, c := range s.columns {
		v.validateExpr(c)
	}

	if s.where != nil {
		v.validateWhere(*s.where)
	}

	if s.order != nil {
		v.validateColumn(*s.order)
	}
}

func (v *validator) validateSource(source string) {
	if source == "" {
		v.addf(ErrCodeSyntax, "FROM table is required")
		return
	}
	if _, ok := v.cat.Table(source); !ok {
		v.addf(ErrCodeUnknownTable, "unknown table %q", source)
		return
	}
	v.scope[source] = true
}

// validateJoin checks one clause against the tables joined before it.
// Each condition compares a column of the joined table with a column of
// a preceding table, in either order.
func (v *validator) validateJoin(j JoinClause) {
	if _, ok := v.cat.Table(j.Table); !ok {
		v.addf(ErrCodeUnknownTable, "unknown table %q", j.Table)
		return
	}
	if v.scope[j.Table] {
		v.addf(ErrCodeBadJoin, "table %q is joined more than once", j.Table)
		return
	}
	if len(j.On) == 0 {
		v.addf(ErrCodeBadJoin, "%s JOIN %s has no ON condition", j.Kind, j.Table)
	}

	for _, cond := range j.On {
		if !v.columnExists(cond.Left) || !v.columnExists(cond.Right) {
			continue
		}
		forward := cond.Right.Table == j.Table && v.scope[cond.Left.Table]
		reverse := cond.Left.Table == j.Table && v.scope[cond.Right.Table]
		if !forward && !reverse {
			v.addf(ErrCodeBadJoin,
				"condition %s must compare a column of %q with a column of a preceding table",
				cond, j.Table)
		}
	}

	v.scope[j.Table] = true
}

func (v *validator) validateWhere(w WhereClause) {
	for _, m := range w.matches {
		v.validateColumn(m.Column)
		if len(m.Values) == 0 {
			v.addf(ErrCodeBadFilter, "no accepted values for %s", m.Column)
		}
		for _, val := range m.Values {
			if ir.IsNull(val) {
				v.addf(ErrCodeBadFilter, "NULL is not a valid value for %s", m.Column)
				break
			}
		}
	}
}

func (v *validator) validateExpr(e Expr) {
	switch expr := e.(type) {
	case ColumnRef:
		v.validateColumn(expr)
	case Literal:
		if expr.Value == nil {
			v.addf(ErrCodeSyntax, "literal without a value")
		}
	case Call:
		for _, arg := range expr.Args {
			v.validateExpr(arg)
		}
		if err := CheckCall(expr); err != nil {
			v.add(err)
		}
	default:
		v.addf(ErrCodeSyntax, "unsupported expression %T", e)
	}
}

// columnExists records UNKNOWN_TABLE/UNKNOWN_COLUMN problems without
// looking at scope.
func (v *validator) columnExists(ref ColumnRef) bool {
	if ref.Table == "" || ref.Column == "" || strings.Contains(ref.Column, ".") {
		v.addf(ErrCodeUnknownColumn, "column %q is not table-qualified", ref.Qualified())
		return false
	}
	t, ok := v.cat.Table(ref.Table)
	if !ok {
		v.addf(ErrCodeUnknownTable, "unknown table %q in %s", ref.Table, ref)
		return false
	}
	if _, ok := t.Column(ref.Column); !ok {
		v.addf(ErrCodeUnknownColumn, "unknown column %s", ref)
		return false
	}
	return true
}

// validateColumn checks existence and that the table is in FROM/JOIN scope.
func (v *validator) validateColumn(ref ColumnRef) {
	if !v.columnExists(ref) {
		return
	}
	if !v.scope[ref.Table] {
		v.addf(ErrCodeUnknownTable, "table %q is not part of the query (referenced by %s)", ref.Table, ref)
	}
}
