package harness

import (
	"context"
	"fmt"

	"github.com/roach88/homeinv/internal/inventory"
	"github.com/roach88/homeinv/internal/store"
)

// opFunc performs one scenario operation. A *store.Error return is an
// outcome, anything else aborts the run.
type opFunc func(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error)

var operations = map[string]opFunc{
	"create_item":         opCreateItem,
	"update_item":         opUpdateItem,
	"delete_item":         opDeleteItem,
	"purge_item":          opPurgeItem,
	"create_transaction":  opCreateTransaction,
	"current_transaction": opCurrentTransaction,
	"box_one":             opBoxOne,
	"unbox":               opUnbox,
	"box_all":             opBoxAll,
	"location":            opLocation,
	"fetch_items":         opFetchItems,
	"fetch_units":         opFetchUnits,
	"search_items":        opSearchItems,
}

func opCreateItem(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error) {
	unitID, err := resolveUnit(ctx, st, args)
	if err != nil {
		return nil, err
	}
	id, err := st.CreateItem(ctx, stringArg(args, "name"), unitID, stringArg(args, "notes"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"item_id": id}, nil
}

func opUpdateItem(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error) {
	itemID, err := intArg(args, "item_id")
	if err != nil {
		return nil, err
	}
	unitID, err := resolveUnit(ctx, st, args)
	if err != nil {
		return nil, err
	}
	return nil, st.UpdateItem(ctx, itemID, stringArg(args, "name"), unitID, stringArg(args, "notes"))
}

func opDeleteItem(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error) {
	itemID, err := intArg(args, "item_id")
	if err != nil {
		return nil, err
	}
	return nil, st.DeleteItem(ctx, itemID)
}

func opPurgeItem(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error) {
	itemID, err := intArg(args, "item_id")
	if err != nil {
		return nil, err
	}
	return nil, st.PurgeItem(ctx, itemID)
}

func opCreateTransaction(ctx context.Context, st *store.Store, _ map[string]any) (map[string]any, error) {
	id, err := st.CreateTransaction(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"transaction_id": id}, nil
}

func opCurrentTransaction(ctx context.Context, st *store.Store, _ map[string]any) (map[string]any, error) {
	id, err := st.CurrentTransaction(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"transaction_id": id}, nil
}

func opBoxOne(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error) {
	itemID, err := intArg(args, "item_id")
	if err != nil {
		return nil, err
	}
	m, err := st.BoxOne(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return moveResult(m), nil
}

func opUnbox(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error) {
	itemID, err := intArg(args, "item_id")
	if err != nil {
		return nil, err
	}
	m, err := st.Unbox(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return moveResult(m), nil
}

func opBoxAll(ctx context.Context, st *store.Store, _ map[string]any) (map[string]any, error) {
	moves, err := st.BoxAll(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"moved": int64(len(moves))}, nil
}

func opLocation(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error) {
	itemID, err := intArg(args, "item_id")
	if err != nil {
		return nil, err
	}
	loc, err := st.ItemLocation(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"location": string(loc)}, nil
}

func opFetchItems(ctx context.Context, st *store.Store, _ map[string]any) (map[string]any, error) {
	items, err := st.FetchItems(ctx)
	if err != nil {
		return nil, err
	}
	return itemsResult(items), nil
}

func opFetchUnits(ctx context.Context, st *store.Store, _ map[string]any) (map[string]any, error) {
	units, err := st.FetchUnits(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]any, len(units))
	for i, u := range units {
		names[i] = u.Name
	}
	return map[string]any{"count": int64(len(units)), "names": names}, nil
}

func opSearchItems(ctx context.Context, st *store.Store, args map[string]any) (map[string]any, error) {
	items, err := st.SearchItems(ctx, stringArg(args, "query"))
	if err != nil {
		return nil, err
	}
	return itemsResult(items), nil
}

func moveResult(m inventory.Move) map[string]any {
	return map[string]any{
		"transaction_id": m.TransactionID,
		"seq":            m.Seq,
		"location":       string(m.Location),
	}
}

func itemsResult(items []inventory.Item) map[string]any {
	names := make([]any, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return map[string]any{"count": int64(len(items)), "names": names}
}

// resolveUnit reads unit_id, or looks up unit by name, defaulting to "each".
func resolveUnit(ctx context.Context, st *store.Store, args map[string]any) (int64, error) {
	if _, ok := args["unit_id"]; ok {
		return intArg(args, "unit_id")
	}
	name := stringArg(args, "unit")
	if name == "" {
		name = inventory.DefaultUnitName
	}
	u, err := st.FetchUnitByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func intArg(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing arg %q", key)
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("arg %q: expected integer, got %T", key, v)
	}
	return n, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

// normalize converts YAML-decoded integers to int64 so values compare equal to
// operation results.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case uint64:
		return int64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		return normalizeMap(x)
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}
