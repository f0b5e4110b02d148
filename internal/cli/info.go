package cli

import (
	"github.com/spf13/cobra"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "info",
		Short:         "Show store identity and table counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openStore(opts, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts, st)

	info, err := st.Info(commandContext(cmd))
	if err != nil {
		return f.FailStore("failed to read store info", err)
	}
	return f.Success(InfoView{Database: opts.Database, Info: info})
}

// NewUnitsCommand creates the units command.
func NewUnitsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "units",
		Short:         "List measurement units",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnits(rootOpts, cmd)
		},
	}
}

func runUnits(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openStore(opts, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts, st)

	units, err := st.FetchUnits(commandContext(cmd))
	if err != nil {
		return f.FailStore("failed to read units", err)
	}
	return f.Success(UnitsView{Units: units})
}
