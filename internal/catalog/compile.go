package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/perspective/internal/ir"
)

//go:embed inventory.cue
var inventorySchema string

// CompileError reports an invalid schema document.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return CompileString(inventorySchema, "inventory.cue")
})

// Default returns the inventory catalog compiled from the embedded schema.
// The result is computed once and shared.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// MustDefault is like Default but panics on error. The embedded schema
// is covered by tests, so a failure here is a build defect.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// CompileString compiles CUE source declaring a top-level "tables" list.
func CompileString(src, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return Compile(v)
}

// Compile parses a CUE value into a Catalog.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// Expected shape:
//
//	tables: [{name: "projects", purpose: "...", columns: [{name: "id", type: "string"}]}]
func Compile(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	tablesVal := v.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return nil, &CompileError{
			Field:   "tables",
			Message: "tables is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := tablesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var tables []Table
	for iter.Next() {
		t, err := compileTable(iter.Value())
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	return New(tables...)
}

func compileTable(v cue.Value) (Table, error) {
	var t Table

	name, err := lookupString(v, "name")
	if err != nil {
		return t, err
	}
	t.Name = name

	if p := v.LookupPath(cue.ParsePath("purpose")); p.Exists() {
		purpose, err := p.String()
		if err != nil {
			return t, formatCUEError(err)
		}
		t.Purpose = purpose
	}

	colIter, err := v.LookupPath(cue.ParsePath("columns")).List()
	if err != nil {
		return t, formatCUEError(err)
	}
	for colIter.Next() {
		col, err := compileColumn(colIter.Value())
		if err != nil {
			return t, err
		}
		col.Table = t.Name
		t.Columns = append(t.Columns, col)
	}
	if len(t.Columns) == 0 {
		return t, &CompileError{
			Field:   t.Name,
			Message: "at least one column is required",
			Pos:     v.Pos(),
		}
	}

	return t, nil
}

func compileColumn(v cue.Value) (Column, error) {
	name, err := lookupString(v, "name")
	if err != nil {
		return Column{}, err
	}

	kind := ir.KindString
	if tv := v.LookupPath(cue.ParsePath("type")); tv.Exists() {
		typeName, err := lookupString(v, "type")
		if err != nil {
			return Column{}, err
		}
		kind, err = ir.ParseKind(typeName)
		if err != nil {
			return Column{}, &CompileError{Field: name, Message: err.Error(), Pos: tv.Pos()}
		}
	}

	return Column{Name: name, Kind: kind}, nil
}

// lookupString reads a concrete string field, resolving CUE defaults.
func lookupString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	if d, ok := fv.Default(); ok {
		fv = d
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
