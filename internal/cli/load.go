package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/perspective/internal/request"
	"github.com/roach88/perspective/internal/store"
)

// LoadResult is the JSON payload of the load command.
type LoadResult struct {
	DB      string            `json:"db"`
	Dropped []string          `json:"dropped,omitempty"`
	Tables  []store.TableInfo `json:"tables"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	var drop string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Store an inventory file in a SQLite database",
		Long: `Read the YAML inventory given by --inventory and store it in the
SQLite database given by --db, creating the database if needed.

Every table in the file replaces the stored snapshot of that table in
a single transaction. Tables not in the file are left alone unless
named with --drop.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, rootOpts, request.ParseEnumeration(drop))
		},
	}

	cmd.Flags().StringVar(&drop, "drop", "", "tables to remove from the database")

	return cmd
}

func runLoad(cmd *cobra.Command, opts *RootOptions, drop []string) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	if opts.DB == "" || (opts.Inventory == "" && len(drop) == 0) {
		msg := "load requires --db and --inventory (or --drop)"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(opts.DB, nil)
	if err != nil {
		_ = formatter.Error(ErrCodeSource, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.logger().Error("error closing database", "path", opts.DB, "error", closeErr)
		}
	}()

	if opts.Inventory != "" {
		src, err := loadInventory(opts.Inventory)
		if err != nil {
			_ = formatter.Error(ErrCodeSource, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load inventory", err)
		}
		if err := st.ReplaceAll(ctx, src); err != nil {
			code := ErrCodeWriteFailed
			if store.IsUnknownTable(err) {
				code = ErrCodeSource
			}
			_ = formatter.Error(code, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to store inventory", err)
		}
		opts.logger().Info("inventory stored", "db", opts.DB, "inventory", opts.Inventory, "tables", len(src))
	}

	for _, table := range drop {
		if err := st.Drop(ctx, table); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to drop table", err)
		}
		opts.logger().Info("table dropped", "db", opts.DB, "table", table)
	}

	tables, err := st.Tables(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeSource, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list tables", err)
	}

	result := LoadResult{DB: opts.DB, Dropped: drop, Tables: tables}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s holds %d %s\n", opts.DB, len(tables), plural(len(tables), "table", "tables"))
	for _, t := range tables {
		fmt.Fprintf(formatter.Writer, "  %-10s %6d rows  (generation %d)\n", t.Name, t.Rows, t.Generation)
	}
	return nil
}
