package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/homeinv/internal/inventory"
	"github.com/roach88/homeinv/internal/store"
)

// ItemsOptions holds flags for the items command.
type ItemsOptions struct {
	*RootOptions
	Search string
}

// NewItemsCommand creates the items command.
func NewItemsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ItemsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List items",
		Long: `List every item in creation order.

With --search, only items whose name or notes contain the query are shown.
Matching ignores case.

Example:
  homeinv items --search berries`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItems(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive substring of name or notes")

	return cmd
}

func runItems(opts *ItemsOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openStore(opts.RootOptions, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	var items []inventory.Item
	if cmd.Flags().Changed("search") {
		items, err = st.SearchItems(ctx, opts.Search)
	} else {
		items, err = st.FetchItems(ctx)
	}
	if err != nil {
		return f.FailStore("failed to read items", err)
	}
	return f.Success(ItemsView{Items: items})
}

// ItemOptions holds flags for the item subcommands.
type ItemOptions struct {
	*RootOptions
	Name  string
	Unit  string
	Notes string
	Purge bool
}

// NewItemCommand creates the item command and its add, update and delete
// subcommands.
func NewItemCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, update or delete an item",
	}

	cmd.AddCommand(newItemAddCommand(rootOpts))
	cmd.AddCommand(newItemUpdateCommand(rootOpts))
	cmd.AddCommand(newItemDeleteCommand(rootOpts))

	return cmd
}

func newItemAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ItemOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item",
		Long: `Add an item. The unit is given by name or id and defaults to "each".

Example:
  homeinv item add Bolt --notes "steel, 1in"
  homeinv item add Rope --unit feet`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			return runItemAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Unit, "unit", inventory.DefaultUnitName, "unit name or id")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "free-form notes")

	return cmd
}

func runItemAdd(opts *ItemOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openStore(opts.RootOptions, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	unitID, err := resolveUnit(ctx, st, opts.Unit)
	if err != nil {
		return f.FailStore("failed to resolve unit", err)
	}

	id, err := st.CreateItem(ctx, opts.Name, unitID, opts.Notes)
	if err != nil {
		return f.FailStore("failed to add item", err)
	}
	item, err := st.FetchItem(ctx, id)
	if err != nil {
		return f.FailStore("failed to read item", err)
	}
	return f.Success(ItemView{Action: "Added", Item: item})
}

func newItemUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ItemOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item",
		Long: `Replace the name, unit or notes of an item. Fields without a flag keep
their current value. The item id never changes.

Example:
  homeinv item update 3 --name "Hex bolt" --notes ""`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemUpdate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new name")
	cmd.Flags().StringVar(&opts.Unit, "unit", "", "new unit name or id")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "new notes")

	return cmd
}

func runItemUpdate(opts *ItemOptions, rawID string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	id, err := parseItemID(rawID)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeInvalidArg, "invalid item id", err)
	}

	st, err := openStore(opts.RootOptions, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	current, err := st.FetchItem(ctx, id)
	if err != nil {
		return f.FailStore("failed to update item", err)
	}

	name, unitID, notes := current.Name, current.Unit.ID, current.Notes
	flags := cmd.Flags()
	if flags.Changed("name") {
		name = opts.Name
	}
	if flags.Changed("notes") {
		notes = opts.Notes
	}
	if flags.Changed("unit") {
		unitID, err = resolveUnit(ctx, st, opts.Unit)
		if err != nil {
			return f.FailStore("failed to resolve unit", err)
		}
	}

	if err := st.UpdateItem(ctx, id, name, unitID, notes); err != nil {
		return f.FailStore("failed to update item", err)
	}
	item, err := st.FetchItem(ctx, id)
	if err != nil {
		return f.FailStore("failed to read item", err)
	}
	return f.Success(ItemView{Action: "Updated", Item: item})
}

func newItemDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ItemOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Long: `Delete an item. An item that has been boxed or unboxed is refused
unless --purge is given, which removes its moves as well.

Example:
  homeinv item delete 3
  homeinv item delete 3 --purge`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemDelete(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Purge, "purge", false, "also delete the item's moves")

	return cmd
}

func runItemDelete(opts *ItemOptions, rawID string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	id, err := parseItemID(rawID)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeInvalidArg, "invalid item id", err)
	}

	st, err := openStore(opts.RootOptions, cmd, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	if opts.Purge {
		err = st.PurgeItem(ctx, id)
	} else {
		err = st.DeleteItem(ctx, id)
	}
	if err != nil {
		return f.FailStore("failed to delete item", err)
	}
	return f.Success(DeletedView{ItemID: id, Purged: opts.Purge})
}

// resolveUnit accepts a unit name or a numeric unit id. Ids are checked by
// the store when the item is written.
func resolveUnit(ctx context.Context, st *store.Store, ref string) (int64, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id, nil
	}
	unit, err := st.FetchUnitByName(ctx, ref)
	if err != nil {
		return 0, err
	}
	return unit.ID, nil
}

func parseItemID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a positive integer", raw)
	}
	return id, nil
}
