// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"yatube/backend/db"
	"yatube/backend/pkg/db/sqlite"
)

// NewDB opens a migrated SQLite database in a temporary directory. The
// database is closed when the test finishes.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := db.Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := sqlite.ApplyMigrations(conn.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// CreateUser inserts a user row directly and returns its id. The stored
// password is not a valid bcrypt hash, so the user cannot log in.
func CreateUser(t testing.TB, conn *sqlx.DB, username string) int64 {
	t.Helper()

	res, err := conn.Exec(
		"INSERT INTO users (username, first_name, last_name, email, password, created_at) VALUES (?, '', '', '', '!', ?)",
		username, time.Now().UTC())
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// CreateGroup inserts a group row directly and returns its id.
func CreateGroup(t testing.TB, conn *sqlx.DB, title, slug string) int64 {
	t.Helper()

	res, err := conn.Exec("INSERT INTO groups (title, slug, description) VALUES (?, ?, '')", title, slug)
	if err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// Clock returns a function that yields strictly increasing timestamps one
// second apart, so ordering in tests does not depend on wall-clock resolution.
func Clock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
