package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/DaWei8/phasely/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB returns a migrated in-memory plan store that is closed at the
// end of the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openCleanup(t, db.MemoryPath)
}

// NewTestFileDB is NewTestDB backed by a file in t.TempDir(), for tests
// that need WAL mode or more than one connection.
func NewTestFileDB(t *testing.T) *sql.DB {
	t.Helper()
	return openCleanup(t, NewTestDBPath(t))
}

// NewTestDBPath returns an unused database path under t.TempDir().
func NewTestDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store", "phasely.db")
}

// NewTestUoW wraps database in a SQLite unit of work.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

func openCleanup(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { database.Close() })
	return database
}
