package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/perspective/internal/engine"
	"github.com/roach88/perspective/internal/ir"
	"github.com/roach88/perspective/internal/queryir"
	"github.com/roach88/perspective/internal/request"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected query or failed scenarios
	ExitCommandError = 2 // Command error (bad flags, missing inventory, etc.)
)

// CLI error codes. Rejected queries report their own category instead,
// e.g. "SYNTAX" or "UNKNOWN_COLUMN".
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeSource        = "E006" // Row source could not be opened or read
	ErrCodeWriteFailed   = "E007" // Database write error
	ErrCodeInvalidFilter = "INVALID_FILTER"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "SYNTAX", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Table writes a result set as aligned columns followed by a row count.
func (f *OutputFormatter) Table(rs *engine.ResultSet) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for i, col := range rs.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, row := range rs.Rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cellText(v))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(f.Writer, "(%d %s)\n", rs.Len(), plural(rs.Len(), "row", "rows"))
	return nil
}

// QueryError reports a rejected query or request and returns the
// matching ExitError.
func (f *OutputFormatter) QueryError(err error) error {
	var iqe *queryir.IllegalQueryError
	var ife *request.InvalidFilterError
	switch {
	case errors.As(err, &iqe):
		_ = f.Error(string(iqe.Code), iqe.Message, queryErrorDetails(iqe))
		return WrapExitError(ExitFailure, "query rejected", err)
	case errors.As(err, &ife):
		_ = f.Error(ErrCodeInvalidFilter, err.Error(), map[string]any{
			"field":   ife.Field,
			"value":   ife.Value,
			"allowed": ife.Allowed,
		})
		return WrapExitError(ExitCommandError, "invalid filter", err)
	default:
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "query failed", err)
	}
}

func queryErrorDetails(e *queryir.IllegalQueryError) any {
	if len(e.Violations) <= 1 && len(e.Details) == 0 {
		return nil
	}
	details := map[string]any{}
	if len(e.Violations) > 0 {
		details["violations"] = e.Violations
	}
	for k, v := range e.Details {
		details[k] = v
	}
	return details
}

func cellText(v ir.Value) string {
	if ir.IsNull(v) {
		return "NULL"
	}
	return v.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
