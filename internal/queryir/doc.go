// Package queryir provides the statement model for fleet inventory
// queries: an immutable Statement, its expressions, join and filter
// clauses, a fluent Builder and catalog validation.
//
// ARCHITECTURE:
//
// The Statement is the contract between the front ends and the executor:
//
//	[query text] → [parser] ─┐
//	                         ├→ [Statement] → [engine.Executor] → ResultSet
//	[request.Find*] → [Builder] ─┘
//
// Both paths end in Builder.Build, so a Statement that exists has already
// passed validation against the catalog. The executor validates again
// because a Statement can be assembled by any caller holding a Builder.
//
// SEALED INTERFACES:
//
// Expr is sealed with the marker method pattern. Only ColumnRef, Literal
// and Call implement it, so type switches in the executor and the text
// renderer are exhaustive:
//
//	switch e := expr.(type) {
//	case queryir.ColumnRef:
//	case queryir.Literal:
//	case queryir.Call:
//	}
//
// FILTER SEMANTICS:
//
// A WhereClause maps columns to sets of accepted literal values. A row
// passes when every constrained column holds one of its accepted values:
// AND across columns, OR within a column. There is no negation and no
// nesting. Null never matches, and NULL is rejected as a filter value.
//
// FUNCTION CALLS:
//
// Calls whose arguments are all literals are validated when the statement
// is built. Calls over columns are arity-checked at build time and their
// values validated per row during execution.
package queryir
