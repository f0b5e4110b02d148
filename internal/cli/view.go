package cli

import (
	"github.com/spf13/cobra"
)

// runView shows every item grouped by location, creating the database on
// first use.
func runView(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openOrCreateStore(opts, cmd, path)
	if err != nil {
		return err
	}
	defer closeStore(opts, st)

	items, err := st.FetchItems(ctx)
	if err != nil {
		return f.FailStore("failed to read items", err)
	}
	locations, err := st.Locations(ctx)
	if err != nil {
		return f.FailStore("failed to read locations", err)
	}

	return f.Success(newInventoryView(path, items, locations))
}
