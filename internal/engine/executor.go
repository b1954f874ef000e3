package engine

import (
	"context"
	"log/slog"
	"slices"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/function"
	"github.com/roach88/perspective/internal/ir"
	"github.com/roach88/perspective/internal/queryir"
)

// execution holds the state of one Execute call.
type execution struct {
	ctx     context.Context
	catalog *catalog.Catalog
	source  RowSource
	log     *slog.Logger
	budget  *rowBudget
}

// evaluate runs join, filter, order and project in that order.
func (e *execution) evaluate(stmt *queryir.Statement) (*ResultSet, error) {
	rows, err := e.load(stmt.Source())
	if err != nil {
		return nil, err
	}

	for _, j := range stmt.Joins() {
		right, err := e.load(j.Table)
		if err != nil {
			return nil, err
		}
		rows, err = e.join(rows, right, j)
		if err != nil {
			return nil, err
		}
		e.log.Debug("join evaluated",
			"kind", j.Kind.String(),
			"table", j.Table,
			"rows", len(rows),
		)
	}

	if where, ok := stmt.Where(); ok {
		rows = filterRows(rows, where)
	}

	if order, ok := stmt.OrderBy(); ok {
		sortRows(rows, order)
	}

	return project(stmt, rows)
}

// filterRows keeps rows satisfying the clause, preserving order.
func filterRows(rows []ir.Row, where queryir.WhereClause) []ir.Row {
	kept := rows[:0:0]
	for _, row := range rows {
		if where.Satisfied(row) {
			kept = append(kept, row)
		}
	}
	return kept
}

// sortRows sorts ascending by natural comparison. Equal keys keep their
// relative order.
func sortRows(rows []ir.Row, order queryir.ColumnRef) {
	col := order.Qualified()
	slices.SortStableFunc(rows, func(a, b ir.Row) int {
		return ir.Compare(a.Value(col), b.Value(col))
	})
}

// project evaluates the statement's expressions for every row.
func project(stmt *queryir.Statement, rows []ir.Row) (*ResultSet, error) {
	exprs := stmt.Columns()
	result := &ResultSet{
		Columns: stmt.Labels(),
		Rows:    make([][]ir.Value, 0, len(rows)),
	}

	for i, row := range rows {
		out := make([]ir.Value, len(exprs))
		for c, expr := range exprs {
			v, err := eval(expr, row)
			if err != nil {
				return nil, evaluationError(err, i, expr)
			}
			out[c] = v
		}
		result.Rows = append(result.Rows, out)
	}
	return result, nil
}

// eval computes one expression against a combined row.
func eval(expr queryir.Expr, row ir.Row) (ir.Value, error) {
	switch e := expr.(type) {
	case queryir.ColumnRef:
		return row.Value(e.Qualified()), nil
	case queryir.Literal:
		if e.Value == nil {
			return ir.Null{}, nil
		}
		return e.Value, nil
	case queryir.Call:
		args := make([]ir.Value, len(e.Args))
		for i, arg := range e.Args {
			v, err := eval(arg, row)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return function.Call(e.Function, args)
	default:
		// Expr is sealed; this only guards against a nil expression.
		return nil, queryir.NewIllegalQuery(queryir.ErrCodeSyntax, "unsupported expression %T", expr)
	}
}
