package function

import (
	"fmt"

	"github.com/roach88/perspective/internal/ir"
)

// Arity bounds the number of arguments a function accepts.
// Max < 0 means variadic.
type Arity struct {
	Min int
	Max int
}

// Exactly returns an Arity accepting exactly n arguments.
func Exactly(n int) Arity { return Arity{Min: n, Max: n} }

// AtLeast returns a variadic Arity accepting n or more arguments.
func AtLeast(n int) Arity { return Arity{Min: n, Max: -1} }

// Accepts reports whether n arguments fit the bounds.
func (a Arity) Accepts(n int) bool {
	if n < a.Min {
		return false
	}
	return a.Max < 0 || n <= a.Max
}

func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d", a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}

// Function is a named scalar function.
//
// Contract: ValidateInput must be called, and must return no violations,
// before Apply. Apply assumes valid input; its result on anything else
// is undefined. Signature and Description are static metadata.
type Function interface {
	// Name is the unique registry key, upper case.
	Name() string

	// Arity is checked at parse time when argument values are not yet
	// known (column references).
	Arity() Arity

	// ValidateInput returns violation messages; empty means valid.
	// Nil entries are arguments not known yet and pass every
	// per-argument check.
	ValidateInput(args []ir.Value) []string

	// ReturnType is the kind of every value Apply returns.
	ReturnType() ir.Kind

	// Apply computes the result for validated arguments.
	Apply(args []ir.Value) ir.Value

	// Signature is the human-readable call form, e.g. "ABS(X)".
	Signature() string

	// Description is a one-line explanation for help output.
	Description() string
}

// Info is the documentation view of a registered function.
type Info struct {
	Name        string `json:"name"`
	Signature   string `json:"signature"`
	Description string `json:"description"`
}

// Call validates args and applies fn, returning a ValidationError when
// the arguments are rejected. It is the only sanctioned way to run a
// function outside of tests.
func Call(fn Function, args []ir.Value) (ir.Value, error) {
	if violations := fn.ValidateInput(args); len(violations) > 0 {
		return nil, &ValidationError{Function: fn.Name(), Violations: violations}
	}
	return fn.Apply(args), nil
}

// builtin is the table-driven Function used by the static catalog.
type builtin struct {
	name        string
	arity       Arity
	returnType  ir.Kind
	signature   string
	description string
	validate    func(args []ir.Value) []string
	apply       func(args []ir.Value) ir.Value
}

func (b *builtin) Name() string        { return b.name }
func (b *builtin) Arity() Arity        { return b.arity }
func (b *builtin) ReturnType() ir.Kind { return b.returnType }
func (b *builtin) Signature() string   { return b.signature }
func (b *builtin) Description() string { return b.description }

func (b *builtin) ValidateInput(args []ir.Value) []string {
	return b.validate(args)
}

func (b *builtin) Apply(args []ir.Value) ir.Value {
	return b.apply(args)
}
