// Package function provides the scalar-function catalog of the query
// engine.
//
// Every function validates its arguments before it is applied:
//
//	violations := fn.ValidateInput(args) // empty = valid
//	result := fn.Apply(args)             // only after empty violations
//
// Call bundles the two steps and turns violations into a
// ValidationError. The parser validates literal arguments eagerly; the
// executor validates per row when arguments come from columns.
//
// The registry is filled once from the static Builtins list and is
// read-only afterwards. Names are unique and case-insensitive.
package function
