package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/homeinv/internal/store"
)

// NewStore creates an initialized store in a temp directory with a fixed
// store id. The store is closed when the test ends.
func NewStore(t testing.TB, opts ...store.Option) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inventory.db")
	opts = append([]store.Option{store.WithIDGenerator(NewFixedIDGenerator(""))}, opts...)

	st, err := store.Create(context.Background(), path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// NewStoreFile creates an initialized, closed store file and returns its
// path, for tests that reopen the file or hand it to a command.
func NewStoreFile(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inventory.db")
	st, err := store.Create(context.Background(), path,
		store.WithIDGenerator(NewFixedIDGenerator("")))
	require.NoError(t, err)
	require.NoError(t, st.Close())
	return path
}

// SeedItems creates one item per name with the given unit name and returns
// their ids in order.
func SeedItems(t testing.TB, st *store.Store, unit string, names ...string) []int64 {
	t.Helper()
	ctx := context.Background()

	u, err := st.FetchUnitByName(ctx, unit)
	require.NoError(t, err)

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := st.CreateItem(ctx, name, u.ID, "")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}
