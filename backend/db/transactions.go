package db

import (
	"context"
	"database/sql"
	"log"
	"runtime/debug"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise (including on panic, which is re-raised).
func WithTx(ctx context.Context, conn *sqlx.DB, reason string, fn func(tx *sqlx.Tx) error) error {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "starting transaction (%s)", reason)
	}

	committed := false
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[DB] panic in transaction (%s): %v\n%s", reason, p, debug.Stack())
			rollback(tx, reason)
			panic(p)
		}
		if !committed {
			rollback(tx, reason)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "committing transaction (%s)", reason)
	}
	committed = true
	return nil
}

func rollback(tx *sqlx.Tx, reason string) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		log.Printf("[DB] rollback failed (%s): %v", reason, err)
	}
}
