package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/homeinv/internal/inventory"
)

// queryer is satisfied by *sql.DB and *sql.Tx so existence checks can run
// inside a write transaction.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectItems = `
	SELECT i.id, i.name, i.notes, u.id, u.name, u.symbol
	FROM Item i
	JOIN Unit u ON u.id = i.unitId
`

// FetchUnits returns all units in creation order.
func (s *Store) FetchUnits(ctx context.Context) ([]inventory.Unit, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, symbol
		FROM Unit
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, newStorageError("query units", err)
	}
	defer rows.Close()

	var units []inventory.Unit
	for rows.Next() {
		var u inventory.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Symbol); err != nil {
			return nil, newStorageError("scan unit", err)
		}
		units = append(units, u)
	}

	if err := rows.Err(); err != nil {
		return nil, newStorageError("iterate units", err)
	}

	// Return empty slice instead of nil
	if units == nil {
		units = []inventory.Unit{}
	}

	return units, nil
}

// FetchUnitByName returns the unit with the given name.
// Returns ErrUnknownUnit if there is none.
func (s *Store) FetchUnitByName(ctx context.Context, name string) (inventory.Unit, error) {
	if err := s.requireInitialized(); err != nil {
		return inventory.Unit{}, err
	}

	var u inventory.Unit
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, symbol FROM Unit WHERE name = ?
	`, name).Scan(&u.ID, &u.Name, &u.Symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Unit{}, &Error{Code: CodeUnknownUnit, Message: fmt.Sprintf("unknown unit %q", name)}
	}
	if err != nil {
		return inventory.Unit{}, newStorageError("query unit", err)
	}
	return u, nil
}

// FetchItems returns all items in creation order, each with its unit resolved.
func (s *Store) FetchItems(ctx context.Context) ([]inventory.Item, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectItems+` ORDER BY i.id ASC`)
	if err != nil {
		return nil, newStorageError("query items", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// FetchItem returns a single item with its unit resolved.
// Returns ErrItemNotFound if no such item exists.
func (s *Store) FetchItem(ctx context.Context, itemID int64) (inventory.Item, error) {
	if err := s.requireInitialized(); err != nil {
		return inventory.Item{}, err
	}

	row := s.db.QueryRowContext(ctx, selectItems+` WHERE i.id = ?`, itemID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Item{}, newItemNotFound(itemID)
	}
	if err != nil {
		return inventory.Item{}, newStorageError("query item", err)
	}
	return item, nil
}

// SearchItems returns items whose name or notes contain sub, ignoring case,
// in creation order. An empty sub returns every item.
//
// Matching uses Unicode case folding, which SQLite's LIKE does not, so the
// filter runs over FetchItems.
func (s *Store) SearchItems(ctx context.Context, sub string) ([]inventory.Item, error) {
	items, err := s.FetchItems(ctx)
	if err != nil {
		return nil, err
	}

	matches := []inventory.Item{}
	for _, item := range items {
		if inventory.ContainsFold(item.Name, sub) || inventory.ContainsFold(item.Notes, sub) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// Info summarizes a store for display.
type Info struct {
	StoreID            string `json:"store_id"`
	SchemaVersion      int    `json:"schema_version"`
	Units              int    `json:"units"`
	Items              int    `json:"items"`
	Transactions       int    `json:"transactions"`
	Moves              int    `json:"moves"`
	CurrentTransaction int64  `json:"current_transaction"`
}

// Info returns store identity and table counts.
func (s *Store) Info(ctx context.Context) (Info, error) {
	if err := s.requireInitialized(); err != nil {
		return Info{}, err
	}

	var info Info
	if err := s.db.QueryRowContext(ctx,
		`SELECT value FROM Meta WHERE key = ?`, metaStoreID,
	).Scan(&info.StoreID); err != nil {
		return Info{}, newStorageError("read store id", err)
	}

	version, err := schemaVersion(s.db)
	if err != nil {
		return Info{}, newStorageError("read schema version", err)
	}
	info.SchemaVersion = version

	counts := []struct {
		table string
		dest  *int
	}{
		{"Unit", &info.Units},
		{"Item", &info.Items},
		{`"Transaction"`, &info.Transactions},
		{"Move", &info.Moves},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return Info{}, newStorageError("count "+c.table, err)
		}
	}

	current, err := s.CurrentTransaction(ctx)
	if err != nil {
		return Info{}, err
	}
	info.CurrentTransaction = current

	return info, nil
}

// scanItems drains rows produced by selectItems.
func scanItems(rows *sql.Rows) ([]inventory.Item, error) {
	var items []inventory.Item
	for rows.Next() {
		var item inventory.Item
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Notes,
			&item.Unit.ID, &item.Unit.Name, &item.Unit.Symbol,
		); err != nil {
			return nil, newStorageError("scan item", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, newStorageError("iterate items", err)
	}

	if items == nil {
		items = []inventory.Item{}
	}

	return items, nil
}

// scanItem scans a single row produced by selectItems.
// Returns sql.ErrNoRows unwrapped so callers can map it.
func scanItem(row *sql.Row) (inventory.Item, error) {
	var item inventory.Item
	if err := row.Scan(
		&item.ID, &item.Name, &item.Notes,
		&item.Unit.ID, &item.Unit.Name, &item.Unit.Symbol,
	); err != nil {
		return inventory.Item{}, err
	}
	return item, nil
}

// unitExists checks a unit id.
func unitExists(ctx context.Context, q queryer, unitID int64) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM Unit WHERE id = ?`, unitID).Scan(&count)
	if err != nil {
		return false, newStorageError("check unit", err)
	}
	return count > 0, nil
}

// itemExists checks an item id.
func itemExists(ctx context.Context, q queryer, itemID int64) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM Item WHERE id = ?`, itemID).Scan(&count)
	if err != nil {
		return false, newStorageError("check item", err)
	}
	return count > 0, nil
}

// Query runs a raw read query. Intended for state assertions in scenario
// tests; callers must close the returned rows.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, newStorageError("query", err)
	}
	return rows, nil
}
