package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/homeinv/internal/boxes"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the inventory as a Box,Item CSV file",
		Long: `Write every item to a CSV file with the header "Box,Item". Items are
placed in an "Unboxed" or "Boxed" box by their current location.

Example:
  homeinv export --out boxes.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output CSV file (required)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openStore(opts.RootOptions, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	items, err := st.FetchItems(ctx)
	if err != nil {
		return f.FailStore("failed to read items", err)
	}
	locations, err := st.Locations(ctx)
	if err != nil {
		return f.FailStore("failed to read locations", err)
	}

	bs := boxes.FromLedger(items, locations)
	if err := boxes.ExportCSV(opts.Output, bs); err != nil {
		return f.Fail(ExitCommandError, ErrCodeCSV, "failed to write CSV", err)
	}
	opts.Logger.Debug("exported CSV", "file", opts.Output, "items", len(items))

	return f.Success(ExportView{File: opts.Output, Unboxed: bs[0].Len(), Boxed: bs[1].Len()})
}
