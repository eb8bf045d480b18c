// Package store is the persistence adapter: it owns the SQLite database
// that holds the planet catalog, computed routes, and the waypoints and
// detour decisions that make a route up, and it is where the routing
// engine's output gets turned into durable rows.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the database handle and the path it was opened from, the way
// the rest of this module's ambient stack wraps database/sql rather than
// introducing an ORM.
type DB struct {
	*sql.DB
	path string
}

// Open opens (creating if necessary) the SQLite database at path and
// applies sane pragmas for a single-writer, many-reader workload.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := applyPragmas(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &DB{DB: sqlDB, path: path}, nil
}

// Path returns the filesystem path the database was opened from.
func (db *DB) Path() string {
	return db.path
}

func applyPragmas(sqlDB *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			return fmt.Errorf("store: apply pragma %q: %w", p, err)
		}
	}
	return nil
}
