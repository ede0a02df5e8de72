// Package testutil provides shared test helpers for setting up formula
// directories and voicing libraries.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/tonic/internal/library"
	"github.com/starford/tonic/internal/storage"
)

// TestDB creates a temporary SQLite library that is automatically cleaned up.
func TestDB(t *testing.T) *library.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "tonic-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := library.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestFormulaDir creates a temporary formula directory with a storage.Provider.
func TestFormulaDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
