package cli

import (
	"github.com/spf13/cobra"
)

// NewTxnCommand creates the txn command with its new and current
// subcommands.
func NewTxnCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Start or show the current transaction",
		Long: `Moves are recorded against the current transaction, which is always the
newest one. Start a new transaction to group the next batch of moves.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "new",
		Short:         "Start a new transaction",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTxn(rootOpts, true, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "current",
		Short:         "Show the current transaction",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTxn(rootOpts, false, cmd)
		},
	})

	return cmd
}

func runTxn(opts *RootOptions, create bool, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openStore(opts, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts, st)

	var id int64
	if create {
		id, err = st.CreateTransaction(ctx)
	} else {
		id, err = st.CurrentTransaction(ctx)
	}
	if err != nil {
		return f.FailStore("failed to read transaction", err)
	}
	return f.Success(TransactionView{Transaction: id, Created: create})
}
