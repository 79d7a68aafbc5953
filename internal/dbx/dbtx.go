// Package dbx holds what the repositories and services share about the
// database: the DBTX handle every repository is built on and the runner the
// services wrap multi-table writes in.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is satisfied by *sql.DB and *sql.Tx, so a repository built on it runs
// standalone or inside WithTx alike.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the body of a transaction. It may run more than once.
type TxFunc func(ctx context.Context, tx DBTX) error

// MaxTxAttempts bounds how often WithTx runs a body PostgreSQL aborted with
// a serialization failure or a deadlock.
const MaxTxAttempts = 3

// WithTx runs fn in a transaction on db and commits it. An error or panic
// from fn rolls back; a failed rollback is joined to fn's error. Bodies
// aborted with a retryable PostgreSQL error are run again from scratch, so
// fn must reset anything it assigns outside the transaction.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) error {
	for attempt := 1; ; attempt++ {
		err := runTx(ctx, db, opts, fn)
		if err == nil || !IsRetryable(err) || attempt >= MaxTxAttempts || ctx.Err() != nil {
			return err
		}
	}
}

func runTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	settled := false
	defer func() {
		if settled {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		settled = true
		return err
	}

	settled = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
