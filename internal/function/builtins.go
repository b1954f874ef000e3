package function

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/roach88/perspective/internal/ir"
)

// Builtins returns the static registration list. Each call returns new
// instances; the registry keys them by Name.
func Builtins() []Function {
	return []Function{
		Abs(),
		Log10(),
		Ln(),
		Sqrt(),
		Round(),
		Char(),
		Upper(),
		Lower(),
		Length(),
		Concat(),
	}
}

// number returns the float form of a validated numeric argument, going
// through its string representation.
func number(v ir.Value) float64 {
	s, _ := ir.AsString(v)
	f, _ := ir.ParseNumber(s)
	return f
}

func text(v ir.Value) string {
	s, _ := ir.AsString(v)
	return s
}

// Abs returns the ABS function.
func Abs() Function {
	return &builtin{
		name:        "ABS",
		arity:       Exactly(1),
		returnType:  ir.KindFloat,
		signature:   "ABS(X)",
		description: "Returns absolute value of X.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, ArgsCount(1), IsNumber(0))
		},
		apply: func(args []ir.Value) ir.Value {
			return ir.Float(math.Abs(number(args[0])))
		},
	}
}

// Log10 returns the LOG10 function.
func Log10() Function {
	return &builtin{
		name:        "LOG10",
		arity:       Exactly(1),
		returnType:  ir.KindFloat,
		signature:   "LOG10(X)",
		description: "Returns base-10 logarithm of X.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, ArgsCount(1), IsNumber(0), IsPositive(0))
		},
		apply: func(args []ir.Value) ir.Value {
			return ir.Float(math.Log10(number(args[0])))
		},
	}
}

// Ln returns the LN function.
func Ln() Function {
	return &builtin{
		name:        "LN",
		arity:       Exactly(1),
		returnType:  ir.KindFloat,
		signature:   "LN(X)",
		description: "Returns natural logarithm of X.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, ArgsCount(1), IsPositive(0))
		},
		apply: func(args []ir.Value) ir.Value {
			return ir.Float(math.Log(number(args[0])))
		},
	}
}

// Sqrt returns the SQRT function.
func Sqrt() Function {
	return &builtin{
		name:        "SQRT",
		arity:       Exactly(1),
		returnType:  ir.KindFloat,
		signature:   "SQRT(X)",
		description: "Returns square root of X.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, ArgsCount(1), IsNonNegative(0))
		},
		apply: func(args []ir.Value) ir.Value {
			return ir.Float(math.Sqrt(number(args[0])))
		},
	}
}

// Round returns the ROUND function.
func Round() Function {
	return &builtin{
		name:        "ROUND",
		arity:       Arity{Min: 1, Max: 2},
		returnType:  ir.KindFloat,
		signature:   "ROUND(X[, D])",
		description: "Rounds X to D decimal places (0 by default), halves away from zero.",
		validate: func(args []ir.Value) []string {
			checks := []Check{ArgsCountBetween(1, 2), IsNumber(0)}
			if len(args) == 2 {
				checks = append(checks, IsInteger(1))
			}
			return FirstFailure(args, checks...)
		},
		apply: func(args []ir.Value) ir.Value {
			x := number(args[0])
			var digits int64
			if len(args) == 2 {
				digits, _ = ir.AsInt(args[1])
			}
			return ir.Float(roundTo(x, digits))
		},
	}
}

// roundTo rounds x to digits decimal places. Precision beyond what a
// float64 holds leaves x as is; rounding above its magnitude gives 0.
func roundTo(x float64, digits int64) float64 {
	switch {
	case digits > maxRoundDigits:
		return x
	case digits < -maxRoundDigits:
		return 0
	}
	scale := math.Pow(10, float64(digits))
	scaled := x * scale
	if math.IsInf(scaled, 0) {
		return x
	}
	r := math.Round(scaled) / scale
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return x
	}
	return r
}

// maxRoundDigits bounds |D| in ROUND so 10^D stays finite.
const maxRoundDigits = 308

// Char returns the CHAR function.
func Char() Function {
	return &builtin{
		name:        "CHAR",
		arity:       AtLeast(1),
		returnType:  ir.KindString,
		signature:   "CHAR(X1, X2, ..., XN)",
		description: "Returns a string composed of characters with integer codes X1, X2, ..., XN.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, MinArgsCount(1), AllIntegers(), AllCharCodes())
		},
		apply: func(args []ir.Value) ir.Value {
			var sb strings.Builder
			for _, arg := range args {
				code, _ := ir.AsInt(arg)
				sb.WriteRune(rune(code))
			}
			return ir.NewString(sb.String())
		},
	}
}

// Upper returns the UPPER function.
func Upper() Function {
	return &builtin{
		name:        "UPPER",
		arity:       Exactly(1),
		returnType:  ir.KindString,
		signature:   "UPPER(S)",
		description: "Returns S converted to upper case.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, ArgsCount(1), NotNull())
		},
		apply: func(args []ir.Value) ir.Value {
			return ir.NewString(strings.ToUpper(text(args[0])))
		},
	}
}

// Lower returns the LOWER function.
func Lower() Function {
	return &builtin{
		name:        "LOWER",
		arity:       Exactly(1),
		returnType:  ir.KindString,
		signature:   "LOWER(S)",
		description: "Returns S converted to lower case.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, ArgsCount(1), NotNull())
		},
		apply: func(args []ir.Value) ir.Value {
			return ir.NewString(strings.ToLower(text(args[0])))
		},
	}
}

// Length returns the LENGTH function.
func Length() Function {
	return &builtin{
		name:        "LENGTH",
		arity:       Exactly(1),
		returnType:  ir.KindInt,
		signature:   "LENGTH(S)",
		description: "Returns the number of characters in S.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, ArgsCount(1), NotNull())
		},
		apply: func(args []ir.Value) ir.Value {
			return ir.Int(utf8.RuneCountInString(text(args[0])))
		},
	}
}

// Concat returns the CONCAT function.
func Concat() Function {
	return &builtin{
		name:        "CONCAT",
		arity:       AtLeast(1),
		returnType:  ir.KindString,
		signature:   "CONCAT(S1, S2, ..., SN)",
		description: "Returns S1, S2, ..., SN joined together.",
		validate: func(args []ir.Value) []string {
			return FirstFailure(args, MinArgsCount(1), NotNull())
		},
		apply: func(args []ir.Value) ir.Value {
			var sb strings.Builder
			for _, arg := range args {
				sb.WriteString(text(arg))
			}
			return ir.NewString(sb.String())
		},
	}
}
