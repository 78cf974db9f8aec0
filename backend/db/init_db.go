package db

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Connect opens the SQLite database at path with foreign keys enforced and WAL
// journaling. SQLite allows one writer at a time, so the pool is capped at a
// single connection.
func Connect(path string) (*sqlx.DB, error) {
	dsn := "file:" + path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

	conn, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s", path)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	log.Printf("[DB] connected to %s", path)
	return conn, nil
}
