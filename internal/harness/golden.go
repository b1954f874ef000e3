package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/perspective/internal/ir"
)

// Snapshot captures every step outcome of a scenario execution.
// It is serialized with canonical JSON for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Steps        []StepResult
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles IR types and primitives.
func (s *Snapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, step := range s.Steps {
		m := map[string]any{"name": step.Name}
		if step.Query != "" {
			m["query"] = step.Query
		}
		if step.ErrorCode != "" {
			m["error"] = step.ErrorCode
		}
		if step.Result != nil {
			m["columns"] = step.Result.Columns
			rows := make([]any, len(step.Result.Rows))
			for r, row := range step.Result.Rows {
				cells := make([]any, len(row))
				for c, v := range row {
					cells[c] = ir.ToAny(v)
				}
				rows[r] = cells
			}
			m["rows"] = rows
		}
		steps[i] = m
	}

	return map[string]any{
		"scenario": s.ScenarioName,
		"steps":    steps,
	}
}

// MarshalSnapshot returns the canonical JSON snapshot of a result.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{ScenarioName: scenarioName, Steps: result.Steps}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass. Test failure (via
// goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
