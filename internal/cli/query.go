package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/perspective/internal/app"
	"github.com/roach88/perspective/internal/engine"
	"github.com/roach88/perspective/internal/ir"
	"github.com/roach88/perspective/internal/queryir"
	"github.com/roach88/perspective/internal/querysql"
)

// QueryResult is the JSON payload of a successful query.
type QueryResult struct {
	Query   string   `json:"query"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Count   int      `json:"count"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <query>",
		Short: "Run a query against the inventory",
		Long: `Parse a query and execute it against the configured inventory.

Example:
  perspective query --inventory fleet.yaml \
    "SELECT instances.name, projects.name FROM instances
     INNER JOIN projects ON instances.project_id = projects.id
     WHERE instances.state IN ('ACTIVE') ORDER BY instances.name"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, rootOpts, args[0])
		},
	}

	return cmd
}

func runQuery(cmd *cobra.Command, opts *RootOptions, text string) error {
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

	return executeStatement(cmd.Context(), opts, formatter, a, stmt)
}

// executeStatement runs a built statement against the configured row
// source and prints the result.
func executeStatement(ctx context.Context, opts *RootOptions, formatter *OutputFormatter, a *app.App, stmt *queryir.Statement) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rendered := querysql.Render(stmt)
	formatter.VerboseLog("Executing: %s", rendered)

	src, closeSource, err := openSource(opts, formatter)
	if err != nil {
		return err
	}
	defer closeSource()

	rs, err := a.Execute(ctx, stmt, src)
	if err != nil {
		return formatter.QueryError(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(newQueryResult(rendered, rs))
	}
	return formatter.Table(rs)
}

func newQueryResult(query string, rs *engine.ResultSet) QueryResult {
	rows := make([][]any, len(rs.Rows))
	for i, row := range rs.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = ir.ToAny(v)
		}
		rows[i] = cells
	}
	return QueryResult{
		Query:   query,
		Columns: rs.Columns,
		Rows:    rows,
		Count:   rs.Len(),
	}
}
