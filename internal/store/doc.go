// Package store provides SQLite-backed snapshots of the fleet inventory.
//
// Each inventory table (instances, projects, flavors, ...) is stored as a
// sequence of JSON-encoded rows. Replace swaps a table's snapshot in one
// transaction, so a reader sees either the old rows or the new ones.
// Store implements engine.RowSource.
//
// # Schema
//
//   - inventory_tables: one row per loaded table, with its row count
//   - inventory_rows: (table_name, seq, data), ordered by seq
//
// A table that was replaced with zero rows is present and empty; a table
// that was never loaded is absent and Rows reports engine.ErrTableNotFound.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Rows are removed with their table
package store
