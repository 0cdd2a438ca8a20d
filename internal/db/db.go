package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// pragmas are applied to every new database handle, in order.
var pragmas = []struct {
	stmt, desc string
	fileOnly   bool
}{
	{"PRAGMA journal_mode = WAL", "setting WAL mode", true},
	{"PRAGMA busy_timeout = 5000", "setting busy timeout", false},
	{"PRAGMA foreign_keys = ON", "enabling foreign keys", false},
}

// OpenDB opens the plan store at path, creating its directory when needed,
// and brings the schema up to date.
//
// An in-memory database lives only as long as its connection, so MemoryPath
// handles are limited to a single open connection.
func OpenDB(path string) (*sql.DB, error) {
	inMemory := path == MemoryPath
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if inMemory {
		db.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if p.fileOnly && inMemory {
			continue
		}
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.desc, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
