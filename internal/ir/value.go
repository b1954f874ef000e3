package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies the concrete type carried by a Value.
type Kind int

const (
	// KindNull is the absent value (missing column, LEFT JOIN padding).
	KindNull Kind = iota
	// KindString is a UTF-8 string, NFC normalized on construction.
	KindString
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindFloat is a finite 64-bit float.
	KindFloat
)

// String returns the lower-case kind name used in schemas and messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a schema type name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string":
		return KindString, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "double", "number":
		return KindFloat, nil
	case "null":
		return KindNull, nil
	default:
		return KindNull, fmt.Errorf("unknown kind %q", name)
	}
}

// Value is a sealed sum type over the scalar kinds a cell can hold.
// Only Null, String, Int and Float implement it.
type Value interface {
	Kind() Kind
	String() string
	value() // Sealed - only these types implement it
}

// Null represents an absent cell.
type Null struct{}

func (Null) value() {}

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

// String renders Null for display. It is not a conversion; use AsString.
func (Null) String() string { return "NULL" }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String is a string cell.
type String string

func (String) value() {}

// Kind implements Value.
func (String) Kind() Kind { return KindString }

func (s String) String() string { return string(s) }

// Int is an integer cell.
type Int int64

func (Int) value() {}

// Kind implements Value.
func (Int) Kind() Kind { return KindInt }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating point cell.
type Float float64

func (Float) value() {}

// Kind implements Value.
func (Float) Kind() Kind { return KindFloat }

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// NewString creates a String value in NFC form so that comparisons
// between composed and decomposed input agree.
func NewString(s string) String {
	return String(norm.NFC.String(s))
}

// NewInt creates an Int value.
func NewInt(n int64) Int {
	return Int(n)
}

// NewFloat creates a Float value.
func NewFloat(f float64) Float {
	return Float(f)
}

// IsNull reports whether v is absent. A nil interface counts as absent.
func IsNull(v Value) bool {
	return v == nil || v.Kind() == KindNull
}

// ParseNumber parses s as a finite decimal number.
// NaN and infinities are rejected even though strconv accepts them.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether v is a number or a string parseable as one.
func IsNumeric(v Value) bool {
	switch val := v.(type) {
	case Int:
		return true
	case Float:
		return !math.IsNaN(float64(val)) && !math.IsInf(float64(val), 0)
	case String:
		_, ok := ParseNumber(string(val))
		return ok
	default:
		return false
	}
}

// AsString returns the string form of v. Numbers are formatted; Null fails.
func AsString(v Value) (string, error) {
	switch val := v.(type) {
	case String:
		return string(val), nil
	case Int, Float:
		return val.String(), nil
	default:
		return "", mismatch(KindString, v)
	}
}

// AsFloat coerces v to a float64 via its string form when needed.
func AsFloat(v Value) (float64, error) {
	switch val := v.(type) {
	case Float:
		return float64(val), nil
	case Int:
		return float64(val), nil
	case String:
		f, ok := ParseNumber(string(val))
		if !ok {
			return 0, mismatch(KindFloat, v)
		}
		return f, nil
	default:
		return 0, mismatch(KindFloat, v)
	}
}

// AsInt coerces v to an int64. Floats and numeric strings must be integral.
func AsInt(v Value) (int64, error) {
	switch val := v.(type) {
	case Int:
		return int64(val), nil
	case Float:
		f := float64(val)
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, mismatch(KindInt, v)
		}
		return int64(f), nil
	case String:
		s := strings.TrimSpace(string(val))
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, ok := ParseNumber(s)
		if !ok || f != math.Trunc(f) {
			return 0, mismatch(KindInt, v)
		}
		return int64(f), nil
	default:
		return 0, mismatch(KindInt, v)
	}
}

// Convert coerces v to the requested kind. Converting to KindNull always
// yields Null; converting Null to anything else fails.
func Convert(v Value, k Kind) (Value, error) {
	switch k {
	case KindNull:
		return Null{}, nil
	case KindString:
		s, err := AsString(v)
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	case KindInt:
		n, err := AsInt(v)
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case KindFloat:
		f, err := AsFloat(v)
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", k)
	}
}

// FromAny converts a decoded Go value (from YAML, JSON or a SQL scan)
// into a Value. Booleans become their string form.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return NewString(val), nil
	case []byte:
		return NewString(string(val)), nil
	case bool:
		return String(strconv.FormatBool(val)), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d out of int64 range", val)
		}
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return Float(f), nil
	default:
		return nil, fmt.Errorf("unsupported cell type: %T", v)
	}
}

// ToAny returns the plain Go value carried by v (nil for Null).
func ToAny(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	default:
		return nil
	}
}

// Compare orders two values naturally: numerically when both parse as
// numbers, otherwise by their string form. Null sorts before everything.
func Compare(a, b Value) int {
	an, bn := IsNull(a), IsNull(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}

	if ai, ok := a.(Int); ok {
		if bi, ok := b.(Int); ok {
			return cmpOrdered(int64(ai), int64(bi))
		}
	}

	if IsNumeric(a) && IsNumeric(b) {
		af, _ := AsFloat(a)
		bf, _ := AsFloat(b)
		return cmpOrdered(af, bf)
	}

	as, _ := AsString(a)
	bs, _ := AsString(b)
	return strings.Compare(norm.NFC.String(as), norm.NFC.String(bs))
}

// Equal reports whether two values match for join and filter purposes.
// Null never equals anything, including another Null.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return false
	}
	return Compare(a, b) == 0
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
