package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/perspective/internal/harness"
)

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run every *.yaml scenario in a directory.

Each scenario supplies its own inventory and a list of query or find
steps with expected rows, errors or assertions. The command exits 1
when any scenario fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, rootOpts, args[0])
		},
	}

	return cmd
}

func runTests(cmd *cobra.Command, opts *RootOptions, dir string) error {
	formatter := opts.formatter(cmd)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		msg := fmt.Sprintf("scenarios directory not found: %s", dir)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	formatter.VerboseLog("Running scenarios in %s", dir)
	result, err := harness.RunDir(dir)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}

	if result.Total == 0 {
		msg := fmt.Sprintf("no scenarios found in %s", dir)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, f := range result.Failures {
			name := f.Scenario
			if name == "" {
				name = f.Path
			}
			fmt.Fprintf(formatter.Writer, "✗ %s (%s)\n", name, f.Path)
			fmt.Fprintf(formatter.Writer, "  %s\n", f.Error)
		}
		fmt.Fprintf(formatter.Writer, "%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
