// Package store provides SQLite-backed storage for the home inventory.
//
// The store owns four tables:
//   - Unit: Measurement units, seeded once at initialization
//   - Item: Inventory records referencing a Unit
//   - Transaction: Monotonic batch identifiers (current = max id)
//   - Move: Append-only ledger of boxed/unboxed moves per transaction
//
// # Invariants
//
// Seeded units: "each" is inserted first and always holds the lowest id.
//
// Monotonic identifiers: Item and Transaction use AUTOINCREMENT so ids are
// never reused, even after deletes.
//
// Deterministic ledger reads: all Move queries use
// ORDER BY transactionId ASC, seq ASC. An item's current location is the
// location of its last move in that order (Unboxed when it has none).
//
// Referential integrity: foreign_keys=ON, plus explicit unit checks so a bad
// unit id surfaces as ErrUnknownUnit rather than a constraint failure.
//
// # Lifecycle
//
// Open connects and applies pragmas. Initialize creates the schema, seeds the
// units and creates transaction 1 in a single SQL transaction, so partial
// seeding is never observable. PRAGMA user_version marks an initialized file.
// Every other operation returns ErrNotInitialized until Initialize succeeds.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The store assumes a single logical session. The connection pool is capped at
// one connection, which serializes all access.
package store
