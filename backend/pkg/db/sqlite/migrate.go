package sqlite

import (
	"database/sql"
	"embed"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func newMigrate(conn *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "loading embedded migrations")
	}

	driver, err := sqlite3.WithInstance(conn, &sqlite3.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "creating sqlite3 migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, errors.Wrap(err, "creating migration instance")
	}
	return m, nil
}

// ApplyMigrations brings the schema up to the latest version. conn stays open;
// the migrate instance is not closed because closing it closes conn.
func ApplyMigrations(conn *sql.DB) error {
	m, err := newMigrate(conn)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("[Migrate] migration state is up to date")
			return nil
		}
		return errors.Wrap(err, "running migrations")
	}

	log.Println("[Migrate] migrations applied successfully")
	return nil
}

// RollbackLastMigration steps the schema back by one version.
func RollbackLastMigration(conn *sql.DB) error {
	m, err := newMigrate(conn)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "rolling back migration")
	}

	log.Println("[Migrate] rolled back last migration")
	return nil
}

// Version reports the current schema version and whether it is dirty.
func Version(conn *sql.DB) (uint, bool, error) {
	m, err := newMigrate(conn)
	if err != nil {
		return 0, false, err
	}

	v, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	return v, dirty, err
}
