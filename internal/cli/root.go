package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/perspective/internal/app"
	"github.com/roach88/perspective/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	config.Config

	// ConfigFile is an optional YAML file read before env and flags.
	ConfigFile string

	// Logger is set by the root command; commands built directly in
	// tests fall back to slog.Default().
	Logger *slog.Logger
}

// NewRootCommand creates the root command for the perspective CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.Default()}

	cmd := &cobra.Command{
		Use:   "perspective",
		Short: "Perspective - query the fleet inventory",
		Long: `Query instances, projects, flavors, images, networks and keypairs
harvested from many clouds with a small SQL-like language.

Rows come from a YAML inventory file (--inventory) or a SQLite database
filled by "perspective load" (--db).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), opts.ConfigFile)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			opts.Config = cfg
			opts.Logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			return nil
		},
	}

	d := opts.Config
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", d.Verbose, "verbose output")
	flags.StringVar(&opts.Format, "format", d.Format, "output format (json|text)")
	flags.StringVar(&opts.DB, "db", d.DB, "SQLite inventory database")
	flags.StringVar(&opts.Inventory, "inventory", d.Inventory, "YAML inventory file")
	flags.IntVar(&opts.MaxRows, "max-rows", d.MaxRows, "row cap per join (0 disables)")
	flags.StringVar(&opts.ConfigFile, "config", "", "config file")

	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewFunctionsCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) newApp() (*app.App, error) {
	a, err := app.New(app.Options{Logger: o.logger(), MaxRows: o.MaxRows})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "engine setup failed", err)
	}
	return a, nil
}
