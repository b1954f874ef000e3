// Package querysql renders statements back to query text.
//
// Output is canonical: one spelling per statement, upper-case keywords,
// double-quoted strings and explicit join kinds. Parsing the rendered
// text yields an equal Statement.
package querysql

import (
	"strings"

	"github.com/roach88/perspective/internal/queryir"
)

// Render returns the statement as single-line query text.
func Render(s *queryir.Statement) string {
	return render(s, " ")
}

// Pretty returns the statement with each clause on its own line.
func Pretty(s *queryir.Statement) string {
	return render(s, "\n")
}

func render(s *queryir.Statement, sep string) string {
	if s == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(s.Labels(), ", "))

	sb.WriteString(sep)
	sb.WriteString("FROM ")
	sb.WriteString(s.Source())

	for _, j := range s.Joins() {
		sb.WriteString(sep)
		sb.WriteString(j.Kind.String())
		sb.WriteString(" JOIN ")
		sb.WriteString(j.Table)
		sb.WriteString(" ON ")
		for i, cond := range j.On {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			sb.WriteString(cond.String())
		}
	}

	if where, ok := s.Where(); ok {
		sb.WriteString(sep)
		sb.WriteString("WHERE ")
		for i, m := range where.Matches() {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			sb.WriteString(m.Column.Qualified())
			sb.WriteString(" IN (")
			for k, v := range m.Values {
				if k > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(queryir.FormatLiteral(v))
			}
			sb.WriteString(")")
		}
	}

	if order, ok := s.OrderBy(); ok {
		sb.WriteString(sep)
		sb.WriteString("ORDER BY ")
		sb.WriteString(order.Qualified())
	}

	return sb.String()
}
