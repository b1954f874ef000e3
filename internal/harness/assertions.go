package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/perspective/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the result set to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Rows     string // Rendered result set for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Rows != "" {
		fmt.Fprintf(&buf, "\nResult:\n%s\n", e.Rows)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against a step result and
// returns the failure messages. A failed step fails every assertion.
func EvaluateAssertions(sr StepResult, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(sr, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(sr StepResult, a Assertion) error {
	if sr.Result == nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: "a result set",
			Actual:   fmt.Sprintf("error: %v", sr.Err),
		}
	}

	switch a.Type {
	case AssertRowCount:
		return assertRowCount(sr, a)
	case AssertColumnValues:
		return assertColumnValues(sr, a)
	case AssertContainsRow:
		return assertContainsRow(sr, a)
	case AssertOrderedBy:
		return assertOrderedBy(sr, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertRowCount(sr StepResult, a Assertion) error {
	if got := sr.Result.Len(); got != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d row(s)", a.Count),
			Actual:   fmt.Sprintf("%d row(s)", got),
			Rows:     formatRows(sr.Result.Rows),
		}
	}
	return nil
}

func assertColumnValues(sr StepResult, a Assertion) error {
	got, ok := sr.Result.Column(a.Column)
	if !ok {
		return missingColumn(sr, a)
	}

	match := len(got) == len(a.Values)
	for i := 0; match && i < len(got); i++ {
		match = cellMatches(a.Values[i], got[i])
	}
	if !match {
		return &AssertionError{
			Type:     AssertColumnValues,
			Expected: fmt.Sprintf("%s = %v", a.Column, a.Values),
			Actual:   fmt.Sprintf("%s = %v", a.Column, got),
		}
	}
	return nil
}

func assertContainsRow(sr StepResult, a Assertion) error {
	index := make(map[string]int, len(sr.Result.Columns))
	for i, c := range sr.Result.Columns {
		index[c] = i
	}
	for col := range a.Row {
		if _, ok := index[col]; !ok {
			return missingColumn(sr, Assertion{Type: a.Type, Column: col})
		}
	}

	for _, row := range sr.Result.Rows {
		if rowMatches(row, index, a.Row) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertContainsRow,
		Expected: fmt.Sprintf("a row matching %s", formatSubset(a.Row)),
		Actual:   "no matching row",
		Rows:     formatRows(sr.Result.Rows),
	}
}

func assertOrderedBy(sr StepResult, a Assertion) error {
	got, ok := sr.Result.Column(a.Column)
	if !ok {
		return missingColumn(sr, a)
	}
	for i := 1; i < len(got); i++ {
		if ir.Compare(got[i-1], got[i]) > 0 {
			return &AssertionError{
				Type:     AssertOrderedBy,
				Expected: fmt.Sprintf("%s ascending", a.Column),
				Actual:   fmt.Sprintf("row %d (%s) sorts after row %d (%s)", i-1, got[i-1], i, got[i]),
			}
		}
	}
	return nil
}

func missingColumn(sr StepResult, a Assertion) error {
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("column %s", a.Column),
		Actual:   fmt.Sprintf("columns %v", sr.Result.Columns),
	}
}

func rowMatches(row []ir.Value, index map[string]int, want map[string]any) bool {
	for col, v := range want {
		if !cellMatches(v, row[index[col]]) {
			return false
		}
	}
	return true
}

// cellMatches compares an expected YAML value with a result cell.
// Null matches only nil; numbers match numerically; a string never
// matches a number.
func cellMatches(want any, got ir.Value) bool {
	wv, err := ir.FromAny(want)
	if err != nil {
		return false
	}
	if ir.IsNull(wv) || ir.IsNull(got) {
		return ir.IsNull(wv) && ir.IsNull(got)
	}
	if (wv.Kind() == ir.KindString) != (got.Kind() == ir.KindString) {
		return false
	}
	return ir.Compare(wv, got) == 0
}

// formatRows renders rows one per line for failure messages.
func formatRows(rows [][]ir.Value) string {
	var buf strings.Builder
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte('\n')
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		fmt.Fprintf(&buf, "  [%s]", strings.Join(cells, ", "))
	}
	return buf.String()
}

// formatSubset renders a column subset with sorted keys for stable output.
func formatSubset(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
