// Package catalog defines the inventory tables the query engine can read.
//
// The schema is declared in CUE (inventory.cue, embedded at build time)
// and compiled once at startup into an immutable Catalog. Parsing and
// statement building resolve every table and qualified column reference
// against it; the executor re-checks join columns against it before
// touching any rows.
//
// Tables:
//
//	instances  - virtual machines
//	projects   - tenants owning resources
//	flavors    - machine sizes (composite key: id + project_id)
//	images     - bootable images and snapshots
//	networks   - attachable networks
//	keypairs   - SSH keypairs
package catalog
