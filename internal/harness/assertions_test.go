package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perspective/internal/engine"
	"github.com/roach88/perspective/internal/ir"
)

func sampleStep() StepResult {
	return StepResult{
		Name: "sample",
		Result: &engine.ResultSet{
			Columns: []string{"flavors.name", "flavors.vcpus", "images.name"},
			Rows: [][]ir.Value{
				{ir.NewString("m1.large"), ir.NewInt(4), ir.Null{}},
				{ir.NewString("m1.small"), ir.NewInt(1), ir.NewString("ubuntu")},
			},
		},
	}
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	errs := EvaluateAssertions(sampleStep(), []Assertion{
		{Type: AssertRowCount, Count: 2},
		{Type: AssertColumnValues, Column: "flavors.vcpus", Values: []any{4, 1.0}},
		{Type: AssertContainsRow, Row: map[string]any{"flavors.name": "m1.large", "images.name": nil}},
		{Type: AssertOrderedBy, Column: "flavors.name"},
	})

	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Fail(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{
			name:      "row count",
			assertion: Assertion{Type: AssertRowCount, Count: 3},
			want:      "Expected: 3 row(s)",
		},
		{
			name:      "column values",
			assertion: Assertion{Type: AssertColumnValues, Column: "flavors.vcpus", Values: []any{"4", "1"}},
			want:      "Assertion failed: column_values",
		},
		{
			name:      "missing column",
			assertion: Assertion{Type: AssertColumnValues, Column: "flavors.ram"},
			want:      "Expected: column flavors.ram",
		},
		{
			name:      "contains row",
			assertion: Assertion{Type: AssertContainsRow, Row: map[string]any{"flavors.name": "m1.small", "images.name": nil}},
			want:      "a row matching {flavors.name=m1.small, images.name=<nil>}",
		},
		{
			name:      "contains row unknown column",
			assertion: Assertion{Type: AssertContainsRow, Row: map[string]any{"flavors.ram": 1}},
			want:      "Expected: column flavors.ram",
		},
		{
			name:      "ordered by",
			assertion: Assertion{Type: AssertOrderedBy, Column: "flavors.vcpus"},
			want:      "row 0 (4) sorts after row 1 (1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleStep(), []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestEvaluateAssertions_FailedStep(t *testing.T) {
	sr := StepResult{Name: "broken", Err: errors.New("boom"), ErrorCode: "ERROR"}

	errs := EvaluateAssertions(sr, []Assertion{{Type: AssertRowCount}})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: error: boom")
}

func TestCellMatches(t *testing.T) {
	tests := []struct {
		name string
		want any
		got  ir.Value
		ok   bool
	}{
		{"string", "a", ir.NewString("a"), true},
		{"int", 2, ir.NewInt(2), true},
		{"int against float", 2, ir.NewFloat(2), true},
		{"float against int", 2.5, ir.NewInt(2), false},
		{"number against numeric string", 2, ir.NewString("2"), false},
		{"nil against null", nil, ir.Null{}, true},
		{"nil against value", nil, ir.NewString(""), false},
		{"value against null", "", ir.Null{}, false},
		{"unsupported", []any{1}, ir.NewInt(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, cellMatches(tt.want, tt.got))
		})
	}
}
