package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/homeinv/internal/inventory"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Uninitialized file
// 1 - Unit, Item, Transaction, Move, Meta
//
// Migrations are not supported. A file with a newer version is rejected.
const currentSchemaVersion = 1

// Meta keys written at initialization.
const (
	metaStoreID       = "store_id"
	metaSchemaVersion = "schema_version"
)

// IDGenerator produces the store identity recorded at initialization.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 store ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Store is the inventory store. It is the sole writer of its tables;
// callers receive copies of entities.
type Store struct {
	db          *sql.DB
	logger      *slog.Logger
	idGen       IDGenerator
	initialized bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output. Defaults to discard.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides the store id generator (for tests).
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.idGen = gen
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas; does not create tables. Use Initialize on a new
// file, or Create to do both.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// Returns an ErrSchema error if the file was written by a newer schema.
func Open(path string, opts ...Option) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, and :memory: databases are
	// per-connection, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	version, err := schemaVersion(db)
	if err != nil {
		db.Close()
		return nil, newSchemaError("read schema version", err)
	}
	if version > currentSchemaVersion {
		db.Close()
		return nil, newSchemaError(
			fmt.Sprintf("unsupported schema version %d (max %d)", version, currentSchemaVersion), nil)
	}

	s := &Store{
		db:          db,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		idGen:       UUIDv7Generator{},
		initialized: version > 0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create makes a new store file at path and initializes it.
// Fails if anything already exists at path.
func Create(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, newSchemaError(fmt.Sprintf("file or directory exists: %s", path), nil)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	s, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Initialize(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
// Should be called when the store is no longer needed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialized reports whether Initialize has completed on this file.
func (s *Store) Initialized() bool {
	return s.initialized
}

// Initialize performs one-time setup: creates the tables, seeds the units
// and creates transaction 1, all in a single SQL transaction.
//
// Returns ErrSchema if the store is already initialized or if any step fails.
// On failure nothing is written.
func (s *Store) Initialize(ctx context.Context) error {
	if s.initialized {
		return newSchemaError("store already initialized", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return newSchemaError("initialize: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return newSchemaError("initialize: create tables", err)
	}

	for _, u := range inventory.SeedUnits {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO Unit (name, symbol) VALUES (?, ?)`, u.Name, u.Symbol,
		); err != nil {
			return newSchemaError(fmt.Sprintf("initialize: seed unit %q", u.Name), err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO "Transaction" DEFAULT VALUES`); err != nil {
		return newSchemaError("initialize: create first transaction", err)
	}

	storeID := s.idGen.Generate()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO Meta (key, value) VALUES (?, ?), (?, ?)
	`, metaStoreID, storeID, metaSchemaVersion, fmt.Sprintf("%d", currentSchemaVersion)); err != nil {
		return newSchemaError("initialize: write metadata", err)
	}

	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return newSchemaError("initialize: set user_version", err)
	}

	if err := tx.Commit(); err != nil {
		return newSchemaError("initialize: commit", err)
	}

	s.initialized = true
	s.logger.Debug("store initialized",
		"store_id", storeID,
		"units", len(inventory.SeedUnits),
		"schema_version", currentSchemaVersion)
	return nil
}

// requireInitialized guards every operation other than Initialize.
func (s *Store) requireInitialized() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// schemaVersion reads PRAGMA user_version.
func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
