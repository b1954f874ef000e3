package catalog

import (
	"fmt"
	"strings"

	"github.com/roach88/perspective/internal/ir"
)

// Inventory table names.
const (
	TableInstances = "instances"
	TableProjects  = "projects"
	TableFlavors   = "flavors"
	TableImages    = "images"
	TableNetworks  = "networks"
	TableKeypairs  = "keypairs"
)

// Column is a typed column of a table.
type Column struct {
	Table string
	Name  string
	Kind  ir.Kind
}

// Qualified returns the "table.column" form used in every query.
func (c Column) Qualified() string {
	return c.Table + "." + c.Name
}

// Table is a named, ordered list of columns. Row data is never owned by
// the catalog; it is supplied per execution by a row source.
type Table struct {
	Name    string
	Purpose string
	Columns []Column
}

// Column looks up a column by its unqualified name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// QualifiedNames returns the qualified column names in schema order.
func (t Table) QualifiedNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Qualified()
	}
	return names
}

// Catalog is the immutable set of tables known to the engine.
// It is safe for concurrent use once constructed.
type Catalog struct {
	tables map[string]Table
	order  []string
}

// New builds a catalog from tables. Table names and column names within
// a table must be unique.
func New(tables ...Table) (*Catalog, error) {
	c := &Catalog{
		tables: make(map[string]Table, len(tables)),
		order:  make([]string, 0, len(tables)),
	}
	for _, t := range tables {
		if t.Name == "" {
			return nil, &CompileError{Field: "name", Message: "table name is required"}
		}
		if _, dup := c.tables[t.Name]; dup {
			return nil, &CompileError{Field: t.Name, Message: "duplicate table"}
		}
		seen := make(map[string]bool, len(t.Columns))
		cols := make([]Column, len(t.Columns))
		for i, col := range t.Columns {
			if seen[col.Name] {
				return nil, &CompileError{
					Field:   t.Name + "." + col.Name,
					Message: "duplicate column",
				}
			}
			seen[col.Name] = true
			col.Table = t.Name
			cols[i] = col
		}
		t.Columns = cols
		c.tables[t.Name] = t
		c.order = append(c.order, t.Name)
	}
	return c, nil
}

// Table returns a table by name.
func (c *Catalog) Table(name string) (Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Tables returns all tables in declaration order.
func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.order))
	for i, name := range c.order {
		out[i] = c.tables[name]
	}
	return out
}

// Column resolves a qualified "table.column" reference.
func (c *Catalog) Column(qualified string) (Column, bool) {
	table, column, ok := SplitQualified(qualified)
	if !ok {
		return Column{}, false
	}
	t, ok := c.tables[table]
	if !ok {
		return Column{}, false
	}
	return t.Column(column)
}

// SplitQualified splits "table.column". Both parts must be non-empty and
// the column part must not contain another dot.
func SplitQualified(name string) (table, column string, ok bool) {
	table, column, found := strings.Cut(name, ".")
	if !found || table == "" || column == "" || strings.Contains(column, ".") {
		return "", "", false
	}
	return table, column, true
}

func (c *Catalog) String() string {
	return fmt.Sprintf("Catalog%v", c.order)
}
