package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/homeinv/internal/store"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create and initialize a new database",
		Long: `Create a new inventory database: tables, the seeded units and the
first transaction. Refuses to touch an existing file.

Example:
  homeinv init --db ./garage.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)
	path := opts.Database

	if _, err := os.Stat(path); err == nil {
		return f.Fail(ExitCommandError, ErrCodeExists, fmt.Sprintf("database already exists: %s", path), nil)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return f.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to stat database", err)
	}

	st, err := store.Create(ctx, path, store.WithLogger(opts.Logger))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to create database", err)
	}
	defer closeStore(opts, st)

	info, err := st.Info(ctx)
	if err != nil {
		return f.FailStore("failed to read store info", err)
	}
	opts.Logger.Info("database initialized", "path", path, "store_id", info.StoreID)

	return f.Success(InitView{Database: path, StoreID: info.StoreID})
}
