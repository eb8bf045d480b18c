package store

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrateLogger adapts the standard logger to migrate.Logger, so schema
// migrations show up in the same log stream as everything else rather
// than on their own output.
type migrateLogger struct {
	verbose bool
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("migrate: "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}

// newMigrate builds a *migrate.Migrate pointed at the given migrations
// directory and a second connection to the same database, so that
// closing the migrator leaves db's own handle open.
func (db *DB) newMigrate(migrationsDir string) (*migrate.Migrate, error) {
	mdb, err := sql.Open("sqlite", db.path)
	if err != nil {
		return nil, fmt.Errorf("store: open migrate connection: %w", err)
	}
	driver, err := msqlite.WithInstance(mdb, &msqlite.Config{})
	if err != nil {
		mdb.Close()
		return nil, fmt.Errorf("store: build sqlite migrate driver: %w", err)
	}

	absDir, err := filepath.Abs(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("store: resolve migrations dir %s: %w", migrationsDir, err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absDir), "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("store: init migrate: %w", err)
	}
	m.Log = &migrateLogger{verbose: false}
	return m, nil
}

// MigrateUp applies every pending migration in migrationsDir.
func (db *DB) MigrateUp(migrationsDir string) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("store: migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back every applied migration in migrationsDir.
func (db *DB) MigrateDown(migrationsDir string) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("store: migrate down: %w", err)
	}
	return nil
}

// MigrateVersion reports the schema version currently applied, and
// whether a prior migration left the schema dirty.
func (db *DB) MigrateVersion(migrationsDir string) (version uint, dirty bool, err error) {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("store: read migration version: %w", err)
	}
	return version, dirty, nil
}

// MigrateTo migrates the schema to an explicit version, up or down as
// needed.
func (db *DB) MigrateTo(migrationsDir string, version uint) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Migrate(version); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("store: migrate to version %d: %w", version, err)
	}
	return nil
}
