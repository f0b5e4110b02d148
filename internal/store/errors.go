package store

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// CodeNotInitialized indicates an operation ran before Initialize.
	CodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// CodeSchema indicates initialization or schema checks failed.
	CodeSchema ErrorCode = "SCHEMA"

	// CodeUnknownUnit indicates a unit id that does not exist.
	CodeUnknownUnit ErrorCode = "UNKNOWN_UNIT"

	// CodeItemNotFound indicates an item id that does not exist.
	CodeItemNotFound ErrorCode = "ITEM_NOT_FOUND"

	// CodeNoCurrentTransaction indicates the transaction table is empty.
	CodeNoCurrentTransaction ErrorCode = "NO_CURRENT_TRANSACTION"

	// CodeStorage indicates the underlying write or read failed.
	CodeStorage ErrorCode = "STORAGE"

	// CodeItemHasHistory indicates a delete was refused because the item
	// has ledger moves.
	CodeItemHasHistory ErrorCode = "ITEM_HAS_HISTORY"

	// CodeInvalidMove indicates a box/unbox from the wrong location.
	CodeInvalidMove ErrorCode = "INVALID_MOVE"
)

// Error is the error type returned by every Store operation.
//
// Errors compare equal under errors.Is when their codes match, so callers
// can test against the sentinels below and still use errors.As for details.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ItemID identifies the affected item, when there is one.
	ItemID int64

	// UnitID identifies the offending unit (for CodeUnknownUnit).
	UnitID int64

	// Err is the underlying cause, if any.
	Err error
}

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrNotInitialized       = &Error{Code: CodeNotInitialized, Message: "store is not initialized"}
	ErrSchema               = &Error{Code: CodeSchema, Message: "schema error"}
	ErrUnknownUnit          = &Error{Code: CodeUnknownUnit, Message: "unknown unit"}
	ErrItemNotFound         = &Error{Code: CodeItemNotFound, Message: "item not found"}
	ErrNoCurrentTransaction = &Error{Code: CodeNoCurrentTransaction, Message: "no current transaction"}
	ErrStorage              = &Error{Code: CodeStorage, Message: "storage error"}
	ErrItemHasHistory       = &Error{Code: CodeItemHasHistory, Message: "item has move history"}
	ErrInvalidMove          = &Error{Code: CodeInvalidMove, Message: "invalid move"}
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.ItemID != 0 {
		msg = fmt.Sprintf("%s (item=%d)", msg, e.ItemID)
	}
	if e.UnitID != 0 {
		msg = fmt.Sprintf("%s (unit=%d)", msg, e.UnitID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a store *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the store error code carried by err, or "" if err is not a
// store error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func newSchemaError(message string, err error) *Error {
	return &Error{Code: CodeSchema, Message: message, Err: err}
}

func newStorageError(op string, err error) *Error {
	return &Error{Code: CodeStorage, Message: op, Err: err}
}

func newItemNotFound(itemID int64) *Error {
	return &Error{Code: CodeItemNotFound, Message: "item not found", ItemID: itemID}
}

func newUnknownUnit(unitID int64) *Error {
	return &Error{Code: CodeUnknownUnit, Message: "unknown unit", UnitID: unitID}
}

func newInvalidMove(itemID int64, message string) *Error {
	return &Error{Code: CodeInvalidMove, Message: message, ItemID: itemID}
}
