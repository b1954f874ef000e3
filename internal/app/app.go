// Package app is the composition root: it builds the catalog, function
// registry, parser and executor once and hands them to callers.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/engine"
	"github.com/roach88/perspective/internal/function"
	"github.com/roach88/perspective/internal/parser"
	"github.com/roach88/perspective/internal/queryir"
)

// Options configures New. Zero values select the defaults.
type Options struct {
	// Catalog defaults to catalog.Default().
	Catalog *catalog.Catalog
	// Functions defaults to function.NewDefaultRegistry().
	Functions *function.Registry
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// QueryIDs defaults to UUIDv7 IDs.
	QueryIDs engine.QueryIDGenerator
	// MaxRows caps the rows any single join may produce; 0 means no cap.
	MaxRows int
}

// Request is anything that builds a statement against a catalog, such as
// the request.Find* types.
type Request interface {
	Build(cat *catalog.Catalog) (*queryir.Statement, error)
}

// App wires the query engine together. It is safe for concurrent use;
// nothing in it is mutated after New returns.
type App struct {
	catalog   *catalog.Catalog
	functions *function.Registry
	parser    *parser.Parser
	executor  *engine.Executor
	logger    *slog.Logger
}

// New constructs the engine components. A registry with duplicate
// function names is a configuration fault and fails here.
func New(opts Options) (*App, error) {
	cat := opts.Catalog
	if cat == nil {
		var err error
		cat, err = catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	functions := opts.Functions
	if functions == nil {
		var err error
		functions, err = function.NewDefaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("register functions: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	execOpts := []engine.ExecutorOption{
		engine.WithLogger(logger),
		engine.WithMaxRows(opts.MaxRows),
	}
	if opts.QueryIDs != nil {
		execOpts = append(execOpts, engine.WithQueryIDs(opts.QueryIDs))
	}

	return &App{
		catalog:   cat,
		functions: functions,
		parser:    parser.New(cat, functions),
		executor:  engine.NewExecutor(cat, execOpts...),
		logger:    logger,
	}, nil
}

// Catalog returns the table catalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Builder starts a programmatic statement over the catalog.
func (a *App) Builder() *queryir.Builder {
	return queryir.NewBuilder(a.catalog)
}

// Parse turns query text into a validated statement.
func (a *App) Parse(text string) (*queryir.Statement, error) {
	return a.parser.Parse(text)
}

// Execute evaluates a statement against src.
func (a *App) Execute(ctx context.Context, stmt *queryir.Statement, src engine.RowSource) (*engine.ResultSet, error) {
	return a.executor.Execute(ctx, stmt, src)
}

// Query parses text and executes it against src.
func (a *App) Query(ctx context.Context, text string, src engine.RowSource) (*engine.ResultSet, error) {
	stmt, err := a.Parse(text)
	if err != nil {
		return nil, err
	}
	return a.Execute(ctx, stmt, src)
}

// Run builds req and executes the resulting statement against src.
func (a *App) Run(ctx context.Context, req Request, src engine.RowSource) (*queryir.Statement, *engine.ResultSet, error) {
	stmt, err := req.Build(a.catalog)
	if err != nil {
		return nil, nil, err
	}
	rs, err := a.Execute(ctx, stmt, src)
	if err != nil {
		return stmt, nil, err
	}
	return stmt, rs, nil
}

// ListFunctions returns name, signature and description of every
// registered function, ordered by name.
func (a *App) ListFunctions() []function.Info {
	return a.functions.List()
}
