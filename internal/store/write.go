package store

import (
	"context"
	"database/sql"
	"errors"
)

// CreateItem inserts an item and returns its new id.
//
// Ids are assigned by AUTOINCREMENT: strictly increasing and never reused,
// even after deletes. The name is not validated; empty names are allowed.
//
// Returns ErrUnknownUnit if unitID does not exist, ErrStorage if the write
// fails or no id is obtained.
func (s *Store) CreateItem(ctx context.Context, name string, unitID int64, notes string) (int64, error) {
	if err := s.requireInitialized(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newStorageError("create item: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	ok, err := unitExists(ctx, tx, unitID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, newUnknownUnit(unitID)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO Item (name, unitId, notes)
		VALUES (?, ?, ?)
	`, name, unitID, notes)
	if err != nil {
		return 0, newStorageError("create item: insert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, newStorageError("create item: last insert id", err)
	}
	if id <= 0 {
		return 0, newStorageError("create item: no id assigned", nil)
	}

	if err := tx.Commit(); err != nil {
		return 0, newStorageError("create item: commit", err)
	}

	s.logger.Debug("item created", "item_id", id, "unit_id", unitID)
	return id, nil
}

// UpdateItem replaces name, unit and notes of an existing item.
// The item id never changes.
//
// Returns ErrItemNotFound if the item does not exist, ErrUnknownUnit if
// unitID does not exist.
func (s *Store) UpdateItem(ctx context.Context, itemID int64, name string, unitID int64, notes string) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return newStorageError("update item: begin tx", err)
	}
	defer tx.Rollback()

	exists, err := itemExists(ctx, tx, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return newItemNotFound(itemID)
	}

	ok, err := unitExists(ctx, tx, unitID)
	if err != nil {
		return err
	}
	if !ok {
		return newUnknownUnit(unitID)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE Item SET name = ?, unitId = ?, notes = ?
		WHERE id = ?
	`, name, unitID, notes, itemID); err != nil {
		return newStorageError("update item", err)
	}

	if err := tx.Commit(); err != nil {
		return newStorageError("update item: commit", err)
	}

	s.logger.Debug("item updated", "item_id", itemID, "unit_id", unitID)
	return nil
}

// DeleteItem removes an item permanently.
//
// Returns ErrItemNotFound if the item does not exist. Returns
// ErrItemHasHistory if the ledger references the item; use PurgeItem to
// remove the item together with its moves.
func (s *Store) DeleteItem(ctx context.Context, itemID int64) error {
	return s.deleteItem(ctx, itemID, false)
}

// PurgeItem removes an item and every ledger move that references it,
// atomically. Returns ErrItemNotFound if the item does not exist.
func (s *Store) PurgeItem(ctx context.Context, itemID int64) error {
	return s.deleteItem(ctx, itemID, true)
}

func (s *Store) deleteItem(ctx context.Context, itemID int64, purge bool) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return newStorageError("delete item: begin tx", err)
	}
	defer tx.Rollback()

	exists, err := itemExists(ctx, tx, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return newItemNotFound(itemID)
	}

	var moves int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM Move WHERE itemId = ?`, itemID,
	).Scan(&moves); err != nil {
		return newStorageError("delete item: count moves", err)
	}

	if moves > 0 {
		if !purge {
			return &Error{
				Code:    CodeItemHasHistory,
				Message: "item has move history; purge to delete it with its moves",
				ItemID:  itemID,
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM Move WHERE itemId = ?`, itemID); err != nil {
			return newStorageError("delete item: delete moves", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM Item WHERE id = ?`, itemID); err != nil {
		return newStorageError("delete item", err)
	}

	if err := tx.Commit(); err != nil {
		return newStorageError("delete item: commit", err)
	}

	s.logger.Debug("item deleted", "item_id", itemID, "moves_removed", moves, "purge", purge)
	return nil
}

// CreateTransaction starts a new transaction and returns its id, which is
// strictly greater than every earlier transaction id.
func (s *Store) CreateTransaction(ctx context.Context) (int64, error) {
	if err := s.requireInitialized(); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO "Transaction" DEFAULT VALUES`)
	if err != nil {
		return 0, newStorageError("create transaction", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, newStorageError("create transaction: last insert id", err)
	}
	if id <= 0 {
		return 0, newStorageError("create transaction: no id assigned", nil)
	}

	s.logger.Debug("transaction created", "transaction_id", id)
	return id, nil
}

// CurrentTransaction returns the transaction with the maximum id.
// Returns ErrNoCurrentTransaction if there are none.
func (s *Store) CurrentTransaction(ctx context.Context) (int64, error) {
	if err := s.requireInitialized(); err != nil {
		return 0, err
	}
	return currentTransaction(ctx, s.db)
}

func currentTransaction(ctx context.Context, q queryer) (int64, error) {
	var id sql.NullInt64
	err := q.QueryRowContext(ctx, `SELECT MAX(id) FROM "Transaction"`).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, newStorageError("query current transaction", err)
	}
	if !id.Valid {
		return 0, ErrNoCurrentTransaction
	}
	return id.Int64, nil
}
