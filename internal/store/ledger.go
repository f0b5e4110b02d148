package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/homeinv/internal/inventory"
)

// BoxOne moves an unboxed item to Boxed, recorded against the current
// transaction.
//
// Returns ErrItemNotFound if the item does not exist, ErrInvalidMove if it is
// already boxed.
func (s *Store) BoxOne(ctx context.Context, itemID int64) (inventory.Move, error) {
	return s.moveOne(ctx, itemID, inventory.Boxed)
}

// Unbox moves a boxed item back to Unboxed, recorded against the current
// transaction.
//
// Returns ErrItemNotFound if the item does not exist, ErrInvalidMove if it is
// not boxed.
func (s *Store) Unbox(ctx context.Context, itemID int64) (inventory.Move, error) {
	return s.moveOne(ctx, itemID, inventory.Unboxed)
}

// BoxAll boxes every currently unboxed item, in item id order, in a single
// SQL transaction. Returns the recorded moves; an empty slice when nothing
// was unboxed.
func (s *Store) BoxAll(ctx context.Context) ([]inventory.Move, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, newStorageError("box all: begin tx", err)
	}
	defer tx.Rollback()

	txnID, err := currentTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	// Collect ids first: the connection cannot run inserts while rows are open.
	rows, err := tx.QueryContext(ctx, `SELECT id FROM Item ORDER BY id ASC`)
	if err != nil {
		return nil, newStorageError("box all: query items", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, newStorageError("box all: scan item", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, newStorageError("box all: iterate items", err)
	}
	rows.Close()

	moves := []inventory.Move{}
	for _, id := range ids {
		loc, err := itemLocation(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if loc == inventory.Boxed {
			continue
		}
		m, err := appendMove(ctx, tx, txnID, id, inventory.Boxed)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}

	if err := tx.Commit(); err != nil {
		return nil, newStorageError("box all: commit", err)
	}

	s.logger.Debug("boxed all items", "transaction_id", txnID, "moved", len(moves))
	return moves, nil
}

// ItemLocation returns the current location of an item.
// Returns ErrItemNotFound if the item does not exist.
func (s *Store) ItemLocation(ctx context.Context, itemID int64) (inventory.Location, error) {
	if err := s.requireInitialized(); err != nil {
		return "", err
	}

	exists, err := itemExists(ctx, s.db, itemID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", newItemNotFound(itemID)
	}
	return itemLocation(ctx, s.db, itemID)
}

// Locations returns the current location of every item, keyed by item id.
// Items with no moves are Unboxed.
func (s *Store) Locations(ctx context.Context) (map[int64]inventory.Location, error) {
	items, err := s.FetchItems(ctx)
	if err != nil {
		return nil, err
	}
	moves, err := s.ReadMoves(ctx)
	if err != nil {
		return nil, err
	}

	derived := inventory.DeriveLocations(moves)
	locations := make(map[int64]inventory.Location, len(items))
	for _, item := range items {
		locations[item.ID] = inventory.LocationOf(derived, item.ID)
	}
	return locations, nil
}

// ReadMoves returns the whole ledger ordered by (transactionId, seq).
func (s *Store) ReadMoves(ctx context.Context) ([]inventory.Move, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transactionId, seq, itemId, location
		FROM Move
		ORDER BY transactionId ASC, seq ASC
	`)
	if err != nil {
		return nil, newStorageError("query moves", err)
	}
	defer rows.Close()

	return scanMoves(rows)
}

// ReadMovesForTransaction returns the moves recorded against one transaction,
// ordered by seq. Unknown transactions yield an empty slice.
func (s *Store) ReadMovesForTransaction(ctx context.Context, transactionID int64) ([]inventory.Move, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transactionId, seq, itemId, location
		FROM Move
		WHERE transactionId = ?
		ORDER BY seq ASC
	`, transactionID)
	if err != nil {
		return nil, newStorageError("query moves for transaction", err)
	}
	defer rows.Close()

	return scanMoves(rows)
}

// moveOne records a single-item transition in its own SQL transaction.
func (s *Store) moveOne(ctx context.Context, itemID int64, to inventory.Location) (inventory.Move, error) {
	if err := s.requireInitialized(); err != nil {
		return inventory.Move{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return inventory.Move{}, newStorageError("move item: begin tx", err)
	}
	defer tx.Rollback()

	exists, err := itemExists(ctx, tx, itemID)
	if err != nil {
		return inventory.Move{}, err
	}
	if !exists {
		return inventory.Move{}, newItemNotFound(itemID)
	}

	from, err := itemLocation(ctx, tx, itemID)
	if err != nil {
		return inventory.Move{}, err
	}
	if from == to {
		return inventory.Move{}, newInvalidMove(itemID, "item is already "+string(to))
	}

	txnID, err := currentTransaction(ctx, tx)
	if err != nil {
		return inventory.Move{}, err
	}

	m, err := appendMove(ctx, tx, txnID, itemID, to)
	if err != nil {
		return inventory.Move{}, err
	}

	if err := tx.Commit(); err != nil {
		return inventory.Move{}, newStorageError("move item: commit", err)
	}

	s.logger.Debug("item moved",
		"item_id", itemID,
		"from", from,
		"to", to,
		"transaction_id", txnID,
		"seq", m.Seq)
	return m, nil
}

// itemLocation derives an item's location from its last move.
func itemLocation(ctx context.Context, q queryer, itemID int64) (inventory.Location, error) {
	var loc string
	err := q.QueryRowContext(ctx, `
		SELECT location FROM Move
		WHERE itemId = ?
		ORDER BY transactionId DESC, seq DESC
		LIMIT 1
	`, itemID).Scan(&loc)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Unboxed, nil
	}
	if err != nil {
		return "", newStorageError("query item location", err)
	}
	return inventory.Location(loc), nil
}

// appendMove writes the next ledger entry for a transaction.
func appendMove(ctx context.Context, tx *sql.Tx, txnID, itemID int64, to inventory.Location) (inventory.Move, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM Move WHERE transactionId = ?`, txnID,
	).Scan(&seq); err != nil {
		return inventory.Move{}, newStorageError("next move seq", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO Move (transactionId, seq, itemId, location)
		VALUES (?, ?, ?, ?)
	`, txnID, seq, itemID, string(to))
	if err != nil {
		return inventory.Move{}, newStorageError("insert move", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return inventory.Move{}, newStorageError("insert move: last insert id", err)
	}

	return inventory.Move{
		ID:            id,
		TransactionID: txnID,
		Seq:           seq,
		ItemID:        itemID,
		Location:      to,
	}, nil
}

// scanMoves drains a Move result set.
func scanMoves(rows *sql.Rows) ([]inventory.Move, error) {
	var moves []inventory.Move
	for rows.Next() {
		var m inventory.Move
		var loc string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.Seq, &m.ItemID, &loc); err != nil {
			return nil, newStorageError("scan move", err)
		}
		m.Location = inventory.Location(loc)
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, newStorageError("iterate moves", err)
	}

	if moves == nil {
		moves = []inventory.Move{}
	}

	return moves, nil
}
