package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/perspective/internal/querysql"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Query string `json:"query"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query>",
		Short: "Check a query without executing it",
		Long: `Parse and check a query against the catalog and function registry
without reading any rows. Prints the canonical form of a valid query.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions, text string) error {
	formatter := opts.formatter(cmd)

	a, err := opts.newApp()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}

	stmt, err := a.Parse(text)
	if err != nil {
		return formatter.QueryError(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Query: querysql.Render(stmt)})
	}

	fmt.Fprintln(formatter.Writer, "✓ Query valid")
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintln(formatter.Writer, querysql.Pretty(stmt))
	return nil
}
