package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/engine"
	"github.com/roach88/perspective/internal/harness"
	"github.com/roach88/perspective/internal/store"
)

// errNoSource is returned when neither --db nor --inventory is set.
var errNoSource = errors.New("no inventory: set --db or --inventory")

// openSource returns the row source selected by the flags. --db wins when
// both are set. The returned close function is never nil.
func openSource(opts *RootOptions, formatter *OutputFormatter) (engine.RowSource, func() error, error) {
	noop := func() error { return nil }

	switch {
	case opts.DB != "":
		if _, err := os.Stat(opts.DB); err != nil {
			msg := fmt.Sprintf("database not found: %s", opts.DB)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return nil, noop, WrapExitError(ExitCommandError, msg, err)
		}
		st, err := store.Open(opts.DB, nil)
		if err != nil {
			_ = formatter.Error(ErrCodeSource, err.Error(), nil)
			return nil, noop, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		formatter.VerboseLog("Reading rows from %s", opts.DB)
		return st, st.Close, nil

	case opts.Inventory != "":
		src, err := loadInventory(opts.Inventory)
		if err != nil {
			code := ErrCodeSource
			if errors.Is(err, os.ErrNotExist) {
				code = ErrCodeNotFound
			}
			_ = formatter.Error(code, err.Error(), nil)
			return nil, noop, WrapExitError(ExitCommandError, "failed to load inventory", err)
		}
		formatter.VerboseLog("Reading rows from %s", opts.Inventory)
		return src, noop, nil

	default:
		_ = formatter.Error(ErrCodeSource, errNoSource.Error(), nil)
		return nil, noop, WrapExitError(ExitCommandError, "no row source", errNoSource)
	}
}

func loadInventory(path string) (engine.MapSource, error) {
	records, err := harness.LoadInventory(path)
	if err != nil {
		return nil, err
	}
	return engine.MapSourceFromRecords(catalog.MustDefault(), records)
}
