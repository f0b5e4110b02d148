package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/homeinv/internal/boxes"
)

// BoxesOptions holds flags for the boxes command.
type BoxesOptions struct {
	*RootOptions
	Search string
}

// NewBoxesCommand creates the boxes command.
func NewBoxesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoxesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "boxes <file.csv>",
		Short: "Show or search the boxes in a Box,Item CSV file",
		Long: `Read a CSV file with the header "Box,Item" and list its boxes, or with
--search list the items containing the query, ignoring case.

This command does not use the database.

Example:
  homeinv boxes boxes.csv
  homeinv boxes boxes.csv --search berries`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoxes(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive item substring")

	return cmd
}

func runBoxes(opts *BoxesOptions, file string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	c, err := boxes.ImportCSV(file)
	if err != nil {
		var malformed *boxes.MalformedInputError
		if errors.As(err, &malformed) {
			_ = f.Error(ErrCodeCSV, err.Error(), map[string]any{"file": file, "line": malformed.Line})
			exitErr := WrapExitError(ExitFailure, "malformed CSV", err)
			exitErr.reported = true
			return exitErr
		}
		return f.Fail(ExitCommandError, ErrCodeCSV, "failed to read CSV", err)
	}
	f.VerboseLog("Read %d box(es) from %s", c.Len(), file)

	if cmd.Flags().Changed("search") {
		return f.Success(SearchView{Query: opts.Search, Matches: c.Search(opts.Search)})
	}
	return f.Success(newBoxesView(file, c.Boxes()))
}
