// Package engine executes queryir statements against row sources.
//
// ARCHITECTURE:
//
// Execution is a fixed pipeline over in-memory rows:
//
//	[source rows] → join* → filter → order → project → ResultSet
//
//  1. Join: nested-loop equality join per clause, in declaration order.
//     INNER keeps combined rows whose conditions all hold. LEFT keeps
//     every accumulated row at least once, padding the joined table's
//     columns with Null when nothing matches.
//  2. Filter: WhereClause membership (AND across columns, OR within).
//  3. Order: stable ascending sort by natural comparison.
//  4. Project: evaluate each projected expression per row. Function
//     arguments that come from columns are validated here and a
//     rejection aborts the whole execution.
//
// Row sources hand over rows per table. Column names may be bare
// ("name") or qualified ("instances.name"); the executor qualifies bare
// names with the table they were loaded for. A name qualified with any
// other table is rejected with BAD_ROW.
//
// CRITICAL PATTERNS:
//
// Determinism:
// No maps are iterated while producing output. Join output follows
// left-then-right input order and sorting is stable, so the same
// statement over the same rows always yields the same ResultSet.
//
// Atomic failure:
// Any error aborts the statement. There is no partial ResultSet.
//
// Concurrency:
// An Executor holds only read-only state and may run many statements
// concurrently. Rows supplied by a RowSource are never mutated.
package engine
