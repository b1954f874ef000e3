package harness

import "github.com/roach88/perspective/internal/engine"

// StepResult is the outcome of one step.
type StepResult struct {
	Name string `json:"name"`

	// Query is the canonical text of the executed statement. Empty when
	// the statement could not be built.
	Query string `json:"query,omitempty"`

	// Result is nil when the step failed.
	Result *engine.ResultSet `json:"-"`

	// ErrorCode is the IllegalQueryError code of a failed step, or
	// "ERROR" for any other failure.
	ErrorCode string `json:"error,omitempty"`

	// Err is the failure itself.
	Err error `json:"-"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if all expect clauses and assertions hold.
	Pass bool `json:"pass"`

	// Steps holds one entry per executed step, in order.
	Steps []StepResult `json:"steps"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Step returns the result of the named step.
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
