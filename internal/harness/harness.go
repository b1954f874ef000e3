package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/perspective/internal/app"
	"github.com/roach88/perspective/internal/engine"
	"github.com/roach88/perspective/internal/ir"
	"github.com/roach88/perspective/internal/queryir"
	"github.com/roach88/perspective/internal/querysql"
	"github.com/roach88/perspective/internal/request"
	"github.com/roach88/perspective/internal/store"
	"github.com/roach88/perspective/internal/testutil"
)

// Harness executes the steps of one scenario.
type Harness struct {
	app    *app.App
	source engine.RowSource
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario gets its own engine and row source. Expectation and
// assertion failures are reported in the result; the returned error is
// reserved for scenarios that cannot run at all (bad inventory, store
// failure).
//
// Execution flow:
// 1. Build the row source (in memory, or loaded into an in-memory SQLite store)
// 2. Execute each step: parse or build, then execute
// 3. Check the step's expect clause and assertions
// 4. Return result with pass/fail, step outcomes and errors
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	a, err := app.New(app.Options{
		Logger:   logger,
		QueryIDs: testutil.NewFixedIDGenerator(scenario.Name),
		MaxRows:  scenario.MaxRows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	rows, err := engine.MapSourceFromRecords(a.Catalog(), scenario.Inventory)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	var source engine.RowSource = rows
	if scenario.Source == SourceSQLite {
		st, err := store.Open(":memory:", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()

		if err := st.ReplaceAll(ctx, rows); err != nil {
			return nil, fmt.Errorf("failed to load inventory into store: %w", err)
		}
		source = st
	}

	h := &Harness{app: a, source: source, logger: logger}

	result := NewResult()
	for _, step := range scenario.Steps {
		sr := h.executeStep(ctx, step)
		result.Steps = append(result.Steps, sr)

		for _, msg := range checkExpect(sr, step.Expect) {
			result.AddError(fmt.Sprintf("step %q: %s", step.Name, msg))
		}
		for _, msg := range EvaluateAssertions(sr, step.Assertions) {
			result.AddError(fmt.Sprintf("step %q: %s", step.Name, msg))
		}
	}

	return result, nil
}

// executeStep builds the step's statement and executes it.
// Failures are recorded on the StepResult, never returned.
func (h *Harness) executeStep(ctx context.Context, step Step) StepResult {
	sr := StepResult{Name: step.Name}

	stmt, err := h.statement(step)
	if err != nil {
		sr.Err = err
		sr.ErrorCode = errorCode(err)
		return sr
	}
	sr.Query = querysql.Render(stmt)

	rs, err := h.app.Execute(ctx, stmt, h.source)
	if err != nil {
		sr.Err = err
		sr.ErrorCode = errorCode(err)
		return sr
	}
	sr.Result = rs

	h.logger.Debug("step completed", "step", step.Name, "rows", rs.Len())
	return sr
}

func (h *Harness) statement(step Step) (*queryir.Statement, error) {
	if step.Query != "" {
		return h.app.Parse(step.Query)
	}
	return findRequest(step.Find).Build(h.app.Catalog())
}

// findRequest maps a find step to its request type.
func findRequest(f *FindStep) app.Request {
	names := request.ParseEnumeration(f.Names)
	projects := request.ParseEnumeration(f.Projects)

	switch f.Resource {
	case "instances":
		r := (&request.FindInstances{}).
			WithIDs(f.IDs).
			WithNames(f.Names).
			WithFlavors(f.Flavors).
			WithImages(f.Images).
			WithStates(f.States).
			WithClouds(f.Clouds).
			WithProjects(f.Projects)
		r.Suffixes = f.Suffixes
		return r
	case "projects":
		return &request.FindProjects{
			IDs:    request.ParseEnumeration(f.IDs),
			Names:  names,
			Clouds: request.ParseEnumeration(f.Clouds),
		}
	default:
		return &request.FindByProject{Table: f.Resource, Names: names, Projects: projects}
	}
}

func errorCode(err error) string {
	if code := queryir.ErrorCodeOf(err); code != "" {
		return string(code)
	}
	var ife *request.InvalidFilterError
	if errors.As(err, &ife) {
		return "INVALID_FILTER"
	}
	return "ERROR"
}

// checkExpect compares a step outcome with its expect clause.
// A step without an expect clause must simply succeed.
func checkExpect(sr StepResult, want *Expect) []string {
	if want == nil {
		if sr.Err != nil {
			return []string{fmt.Sprintf("unexpected error: %v", sr.Err)}
		}
		return nil
	}

	if want.Error != "" {
		if sr.Err == nil {
			return []string{fmt.Sprintf("expected error %s, got %d row(s)", want.Error, sr.Result.Len())}
		}
		var errs []string
		if sr.ErrorCode != want.Error {
			errs = append(errs, fmt.Sprintf("expected error %s, got %s: %v", want.Error, sr.ErrorCode, sr.Err))
		}
		if want.Violations != nil {
			got := violations(sr.Err)
			if !slices.Equal(got, want.Violations) {
				errs = append(errs, fmt.Sprintf("expected violations %q, got %q", want.Violations, got))
			}
		}
		return errs
	}

	if sr.Err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", sr.Err)}
	}

	var errs []string
	if want.Columns != nil && !slices.Equal(want.Columns, sr.Result.Columns) {
		errs = append(errs, fmt.Sprintf("expected columns %q, got %q", want.Columns, sr.Result.Columns))
	}
	if want.Rows != nil {
		if msg := compareRows(want.Rows, sr.Result.Rows); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

func violations(err error) []string {
	var iq *queryir.IllegalQueryError
	if !errors.As(err, &iq) {
		return nil
	}
	return iq.Violations
}

func compareRows(want [][]any, got [][]ir.Value) string {
	if len(want) != len(got) {
		return fmt.Sprintf("expected %d row(s), got %d: %s", len(want), len(got), formatRows(got))
	}
	for i := range want {
		if len(want[i]) != len(got[i]) {
			return fmt.Sprintf("row %d: expected %d value(s), got %d", i, len(want[i]), len(got[i]))
		}
		for j := range want[i] {
			if !cellMatches(want[i][j], got[i][j]) {
				return fmt.Sprintf("row %d column %d: expected %v, got %s: %s",
					i, j, want[i][j], got[i][j], formatRows(got))
			}
		}
	}
	return ""
}
