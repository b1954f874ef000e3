package function

import (
	"fmt"
	"unicode/utf8"

	"github.com/roach88/perspective/internal/ir"
)

// Check inspects an argument list and returns violations.
//
// A nil entry stands for an argument whose value is only known per row
// (a column). Per-argument checks pass it; count checks still see it.
type Check func(args []ir.Value) []string

// unknown reports whether argument i is a nil placeholder.
func unknown(args []ir.Value, i int) bool {
	return i < len(args) && args[i] == nil
}

// FirstFailure runs checks in order and returns the violations of the
// first one that fails. Later checks may therefore assume earlier ones
// passed (IsNumber(0) can rely on ArgsCount(1)).
func FirstFailure(args []ir.Value, checks ...Check) []string {
	for _, check := range checks {
		if violations := check(args); len(violations) > 0 {
			return violations
		}
	}
	return nil
}

// ArgsCount requires exactly n arguments.
func ArgsCount(n int) Check {
	return func(args []ir.Value) []string {
		if len(args) != n {
			return []string{fmt.Sprintf("Function requires exactly %d argument(s) but %d were given", n, len(args))}
		}
		return nil
	}
}

// ArgsCountBetween requires between lo and hi arguments inclusive.
func ArgsCountBetween(lo, hi int) Check {
	return func(args []ir.Value) []string {
		if len(args) < lo || len(args) > hi {
			return []string{fmt.Sprintf("Function requires %d to %d arguments but %d were given", lo, hi, len(args))}
		}
		return nil
	}
}

// MinArgsCount requires at least n arguments.
func MinArgsCount(n int) Check {
	return func(args []ir.Value) []string {
		if len(args) < n {
			return []string{fmt.Sprintf("Function requires at least %d argument(s) but %d were given", n, len(args))}
		}
		return nil
	}
}

// IsNumber requires argument i to parse as a finite number.
func IsNumber(i int) Check {
	return func(args []ir.Value) []string {
		if unknown(args, i) {
			return nil
		}
		if i >= len(args) || !ir.IsNumeric(args[i]) {
			return []string{fmt.Sprintf("Argument %d should be a number", i+1)}
		}
		return nil
	}
}

// IsPositive requires argument i to be a number greater than zero.
func IsPositive(i int) Check {
	return func(args []ir.Value) []string {
		if v := IsNumber(i)(args); v != nil || unknown(args, i) {
			return v
		}
		if f, _ := ir.AsFloat(args[i]); f <= 0 {
			return []string{fmt.Sprintf("Argument %d should be positive", i+1)}
		}
		return nil
	}
}

// IsNonNegative requires argument i to be a number not below zero.
func IsNonNegative(i int) Check {
	return func(args []ir.Value) []string {
		if v := IsNumber(i)(args); v != nil || unknown(args, i) {
			return v
		}
		if f, _ := ir.AsFloat(args[i]); f < 0 {
			return []string{fmt.Sprintf("Argument %d should not be negative", i+1)}
		}
		return nil
	}
}

// IsInteger requires argument i to be an integer.
func IsInteger(i int) Check {
	return func(args []ir.Value) []string {
		if i >= len(args) {
			return []string{fmt.Sprintf("Argument %d should be an integer", i+1)}
		}
		if args[i] == nil {
			return nil
		}
		if _, err := ir.AsInt(args[i]); err != nil {
			return []string{fmt.Sprintf("Argument %d should be an integer", i+1)}
		}
		return nil
	}
}

// AllIntegers requires every argument to be an integer. Every offending
// argument is reported.
func AllIntegers() Check {
	return func(args []ir.Value) []string {
		var violations []string
		for i := range args {
			violations = append(violations, IsInteger(i)(args)...)
		}
		return violations
	}
}

// AllCharCodes requires every argument to be a valid Unicode code point.
func AllCharCodes() Check {
	return func(args []ir.Value) []string {
		var violations []string
		for i, arg := range args {
			if arg == nil {
				continue
			}
			n, err := ir.AsInt(arg)
			if err != nil {
				violations = append(violations, fmt.Sprintf("Argument %d should be an integer", i+1))
				continue
			}
			if n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
				violations = append(violations, fmt.Sprintf("Argument %d is not a valid character code", i+1))
			}
		}
		return violations
	}
}

// NotNull requires every argument to be present.
func NotNull() Check {
	return func(args []ir.Value) []string {
		var violations []string
		for i, arg := range args {
			if arg != nil && ir.IsNull(arg) {
				violations = append(violations, fmt.Sprintf("Argument %d should not be null", i+1))
			}
		}
		return violations
	}
}
