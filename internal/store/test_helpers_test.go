package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

const testStoreID = "00000000-0000-7000-8000-000000000001"

// fixedID is an IDGenerator that always returns the same id.
type fixedID string

func (f fixedID) Generate() string { return string(f) }

// createTestStore creates a new initialized store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s := openTestStore(t)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	return s
}

// openTestStore opens a store without initializing it.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(fixedID(testStoreID)))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestItem inserts an item with the "each" unit and fails the test on error.
func createTestItem(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.CreateItem(context.Background(), name, 1, "")
	if err != nil {
		t.Fatalf("CreateItem(%q) failed: %v", name, err)
	}
	return id
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
