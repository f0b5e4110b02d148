package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/homeinv/internal/store"
)

// openStore opens an existing, initialized store. A missing file or an
// uninitialized store is a command error; nothing is created.
func openStore(opts *RootOptions, cmd *cobra.Command, path string) (*store.Store, error) {
	f := opts.formatter(cmd)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound,
				fmt.Sprintf("database not found: %s (run homeinv init)", path), nil)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to open database", err)
	}

	opts.Logger.Debug("opening database", "path", path)
	st, err := store.Open(path, store.WithLogger(opts.Logger))
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to open database", err)
	}
	if !st.Initialized() {
		closeStore(opts, st)
		return nil, f.Fail(ExitCommandError, ErrCodeNotInitialized,
			fmt.Sprintf("database %s is not initialized (run homeinv init)", path), store.ErrNotInitialized)
	}
	return st, nil
}

// openOrCreateStore opens the store at path, creating and initializing it
// first if needed.
func openOrCreateStore(opts *RootOptions, cmd *cobra.Command, path string) (*store.Store, error) {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		opts.Logger.Info("creating database", "path", path)
		st, err := store.Create(ctx, path, store.WithLogger(opts.Logger))
		if err != nil {
			return nil, f.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to create database", err)
		}
		return st, nil
	}

	st, err := store.Open(path, store.WithLogger(opts.Logger))
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to open database", err)
	}
	if !st.Initialized() {
		opts.Logger.Info("initializing database", "path", path)
		if err := st.Initialize(ctx); err != nil {
			closeStore(opts, st)
			return nil, f.FailStore("failed to initialize database", err)
		}
	}
	return st, nil
}

func closeStore(opts *RootOptions, st *store.Store) {
	if err := st.Close(); err != nil {
		opts.Logger.Error("error closing database", "error", err)
	}
}
