// Package harness runs query scenarios against the engine.
//
// A scenario supplies an inventory, a list of steps (query text or a
// find request) and the outcome each step must produce. Scenarios are
// executable documentation: the CLI "test" command runs a directory of
// them and golden snapshots pin the exact result sets.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	source: memory            # or sqlite
//	inventory:
//	  instances:
//	    - {id: 1, name: b, project_id: 9}
//	  projects:
//	    - {id: 9, name: demo}
//	steps:
//	  - name: demo_instances
//	    query: SELECT instances.name FROM instances ...
//	    expect:
//	      columns: [instances.name]
//	      rows: [[a], [b]]
//	  - name: bad_log
//	    query: SELECT LOG10(0) FROM instances
//	    expect:
//	      error: FUNCTION
//	      violations: ["Argument 1 should be positive"]
//	  - name: prod_instances
//	    find: {resource: instances, projects: prod}
//	    assertions:
//	      - type: row_count
//	        count: 1
//
// inventory_file may replace inventory; its path is relative to the
// scenario file.
//
// # Assertion Types
//
//   - row_count: the result has exactly count rows
//   - column_values: a column holds exactly values, in order
//   - contains_row: some row matches every column given in row
//   - ordered_by: a column is in ascending natural order
//
// # Deterministic Testing
//
// Every step runs with a fixed query ID and a discarded logger, so
// repeated runs produce byte-identical golden snapshots. With
// source: sqlite the inventory is first loaded into an in-memory store
// and read back through it.
package harness
