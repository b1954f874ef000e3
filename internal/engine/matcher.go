package engine

import (
	"github.com/roach88/perspective/internal/ir"
	"github.com/roach88/perspective/internal/queryir"
)

// keyPair is a join condition oriented so that Right names a column of
// the joined table and Left a column of the accumulated rows.
type keyPair struct {
	left  string
	right string
}

// orient normalizes conditions written in either order.
//
// Validation guarantees exactly one side of each condition belongs to
// the joined table.
func orient(j queryir.JoinClause) []keyPair {
	pairs := make([]keyPair, len(j.On))
	for i, cond := range j.On {
		l, r := cond.Left, cond.Right
		if l.Table == j.Table {
			l, r = r, l
		}
		pairs[i] = keyPair{left: l.Qualified(), right: r.Qualified()}
	}
	return pairs
}

// matches reports whether every key pair holds between left and right.
// Null never equals anything, so rows with absent keys never match.
func matches(pairs []keyPair, left, right ir.Row) bool {
	for _, p := range pairs {
		if !ir.Equal(left.Value(p.left), right.Value(p.right)) {
			return false
		}
	}
	return true
}
