package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/perspective/internal/store"
)

// TableSummary describes one catalog table.
type TableSummary struct {
	Name    string   `json:"name"`
	Purpose string   `json:"purpose"`
	Columns []string `json:"columns"`
	// Rows is the stored row count; nil when --db is unset or the table
	// was never loaded.
	Rows *int `json:"rows,omitempty"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the catalog tables and their columns",
		Long: `List every table a query may name with its typed columns.
With --db, also show how many rows each table holds in the database.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(cmd, rootOpts)
		},
	}

	return cmd
}

func runTables(cmd *cobra.Command, opts *RootOptions) error {
	formatter := opts.formatter(cmd)

	a, err := opts.newApp()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}

	counts := map[string]int{}
	if opts.DB != "" {
		counts, err = storedCounts(cmd, opts, formatter)
		if err != nil {
			return err
		}
	}

	tables := a.Catalog().Tables()
	summaries := make([]TableSummary, len(tables))
	for i, t := range tables {
		cols := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			cols[j] = c.Name + " " + c.Kind.String()
		}
		summaries[i] = TableSummary{Name: t.Name, Purpose: t.Purpose, Columns: cols}
		if n, ok := counts[t.Name]; ok {
			summaries[i].Rows = &n
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%s", s.Name)
		if s.Rows != nil {
			fmt.Fprintf(formatter.Writer, " (%d %s)", *s.Rows, plural(*s.Rows, "row", "rows"))
		}
		fmt.Fprintln(formatter.Writer)
		if s.Purpose != "" {
			fmt.Fprintf(formatter.Writer, "  %s\n", s.Purpose)
		}
		fmt.Fprintf(formatter.Writer, "  %s\n", strings.Join(s.Columns, ", "))
	}
	return nil
}

func storedCounts(cmd *cobra.Command, opts *RootOptions, formatter *OutputFormatter) (map[string]int, error) {
	if _, err := os.Stat(opts.DB); err != nil {
		msg := fmt.Sprintf("database not found: %s", opts.DB)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return nil, WrapExitError(ExitCommandError, msg, err)
	}

	st, err := store.Open(opts.DB, nil)
	if err != nil {
		_ = formatter.Error(ErrCodeSource, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	infos, err := st.Tables(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeSource, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to list tables", err)
	}

	counts := make(map[string]int, len(infos))
	for _, info := range infos {
		counts[info.Name] = info.Rows
	}
	return counts, nil
}
