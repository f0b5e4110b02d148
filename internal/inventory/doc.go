// Package inventory provides the entity types shared by the store, the box
// interchange layer and the CLI.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import inventory; inventory imports nothing internal.
//
// Key design constraints:
//   - Identifiers are int64 values assigned by the store, never by callers
//   - Ledger ordering is (transaction id, seq), never wall-clock time
//   - All JSON tags use snake_case
package inventory
