// Package testutil provides shared test helpers for setting up journals and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/dagaz/internal/index"
	"github.com/starford/dagaz/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestJournal creates a temporary journal file with a storage.Provider.
func TestJournal(t *testing.T) (string, *storage.File) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.json")
	store, err := storage.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return path, store
}
