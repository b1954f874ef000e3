package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/queryir"
)

// QueryIDGenerator generates IDs that tag one execution in logs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type QueryIDGenerator interface {
	Generate() string
}

// DefaultMaxRows bounds intermediate join results. Zero disables the limit.
const DefaultMaxRows = 0

// Executor evaluates statements against row sources.
//
// Thread-safety: an Executor is immutable after construction and safe
// for concurrent use, provided its QueryIDGenerator is.
type Executor struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
	ids     QueryIDGenerator
	maxRows int
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger. Executions log at Debug level only.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(x *Executor) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// WithQueryIDs sets the generator for per-execution query IDs.
func WithQueryIDs(ids QueryIDGenerator) ExecutorOption {
	return func(x *Executor) {
		if ids != nil {
			x.ids = ids
		}
	}
}

// WithMaxRows limits how many rows a join may produce.
//
// Use WithMaxRows(100000) to guard against runaway cross products on
// a large fleet. Zero or a negative value means unlimited.
func WithMaxRows(n int) ExecutorOption {
	return func(x *Executor) {
		x.maxRows = max(n, 0)
	}
}

// NewExecutor creates an executor validating statements against cat.
func NewExecutor(cat *catalog.Catalog, opts ...ExecutorOption) *Executor {
	x := &Executor{
		catalog: cat,
		logger:  slog.Default(),
		ids:     UUIDv7Generator{},
		maxRows: DefaultMaxRows,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Catalog returns the catalog statements are validated against.
func (x *Executor) Catalog() *catalog.Catalog {
	return x.catalog
}

// Execute evaluates stmt against src.
//
// The statement is validated again before any rows are read, since a
// Statement may come from any Builder. ctx is passed through to src and
// is not consulted by the evaluation itself.
//
// Returns an IllegalQueryError when validation fails, when src has no
// rows for a referenced table (MISSING_ROWS), when a function rejects a
// row's values (EVALUATION), when a source row carries a column of
// another table (BAD_ROW) or when a join exceeds the row limit
// (ROW_LIMIT). Other source failures are returned wrapped.
func (x *Executor) Execute(ctx context.Context, stmt *queryir.Statement, src RowSource) (*ResultSet, error) {
	queryID := x.ids.Generate()
	log := x.logger.With("query_id", queryID)

	if err := queryir.Validate(stmt, x.catalog); err != nil {
		log.Debug("statement rejected", "error", err)
		return nil, err
	}

	run := &execution{
		ctx:     ctx,
		catalog: x.catalog,
		source:  src,
		log:     log,
		budget:  newRowBudget(x.maxRows),
	}
	result, err := run.evaluate(stmt)
	if err != nil {
		log.Debug("execution failed", "error", err)
		return nil, err
	}

	log.Debug("execution finished",
		"source", stmt.Source(),
		"joins", len(stmt.Joins()),
		"rows", result.Len(),
	)
	return result, nil
}
