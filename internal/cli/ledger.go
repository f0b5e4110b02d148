package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/homeinv/internal/inventory"
)

// BoxOptions holds flags for the box command.
type BoxOptions struct {
	*RootOptions
	All bool
}

// NewBoxCommand creates the box command.
func NewBoxCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoxOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "box <id> | --all",
		Short: "Box an item, or every unboxed item",
		Long: `Record a move to boxed in the current transaction.

With --all every unboxed item is boxed in one step, in creation order.
Items that are already boxed are skipped.

Example:
  homeinv box 3
  homeinv box --all`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.All {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.All {
				return runBoxAll(opts, cmd)
			}
			return runMove(opts.RootOptions, args[0], inventory.Boxed, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "box every unboxed item")

	return cmd
}

// NewUnboxCommand creates the unbox command.
func NewUnboxCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "unbox <id>",
		Short:         "Unbox an item",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(rootOpts, args[0], inventory.Unboxed, cmd)
		},
	}
}

func runMove(opts *RootOptions, rawID string, to inventory.Location, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	id, err := parseItemID(rawID)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeInvalidArg, "invalid item id", err)
	}

	st, err := openStore(opts, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts, st)

	var m inventory.Move
	if to == inventory.Boxed {
		m, err = st.BoxOne(ctx, id)
	} else {
		m, err = st.Unbox(ctx, id)
	}
	if err != nil {
		return f.FailStore("failed to move item", err)
	}
	return f.Success(MovesView{Moves: []inventory.Move{m}})
}

func runBoxAll(opts *BoxOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openStore(opts.RootOptions, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	moves, err := st.BoxAll(commandContext(cmd))
	if err != nil {
		return f.FailStore("failed to box items", err)
	}
	f.VerboseLog("Boxed %d item(s)", len(moves))
	return f.Success(MovesView{Moves: moves})
}

// MovesOptions holds flags for the moves command.
type MovesOptions struct {
	*RootOptions
	Transaction int64
}

// NewMovesCommand creates the moves command.
func NewMovesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MovesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "moves",
		Short: "List ledger moves",
		Long: `List moves in (transaction, seq) order, optionally for one transaction.

Example:
  homeinv moves --txn 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoves(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Transaction, "txn", 0, "only moves of this transaction")

	return cmd
}

func runMoves(opts *MovesOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openStore(opts.RootOptions, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	var moves []inventory.Move
	if cmd.Flags().Changed("txn") {
		moves, err = st.ReadMovesForTransaction(ctx, opts.Transaction)
	} else {
		moves, err = st.ReadMoves(ctx)
	}
	if err != nil {
		return f.FailStore("failed to read moves", err)
	}
	return f.Success(MovesView{Moves: moves})
}
