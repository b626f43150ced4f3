// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

const (
	// The reconciler is a one-shot pre-deploy step; it never needs more
	// than one connection and must not linger after the run.
	maxOpenConns    = 1
	connMaxIdleTime = 30 * time.Second
)

type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	WithTransaction(ctx context.Context, f func(context.Context, *sql.Tx) error) error
	Close() error
}

// Conn wraps a *sql.DB capped at a single connection. There is no retry
// machinery here: the deploy automation that invokes the tool owns its own
// retry policy, and a second attempt must start from a fresh run anyway.
type Conn struct {
	DB *sql.DB
}

// Open connects to the target database and verifies the connection with a
// ping before returning.
func Open(ctx context.Context, pgURL string) (*Conn, error) {
	conn, err := sql.Open("postgres", pgURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxOpenConns)
	conn.SetConnMaxIdleTime(connMaxIdleTime)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return &Conn{DB: conn}, nil
}

func (db *Conn) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.DB.ExecContext(ctx, query, args...)
}

func (db *Conn) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, query, args...)
}

func (db *Conn) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

// WithTransaction runs `f` in a transaction, committing if `f` returns nil
// and rolling back otherwise.
func (db *Conn) WithTransaction(ctx context.Context, f func(context.Context, *sql.Tx) error) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := f(ctx, tx); err != nil {
		if errRollback := tx.Rollback(); errRollback != nil {
			return errRollback
		}
		return err
	}

	return tx.Commit()
}

func (db *Conn) Close() error {
	return db.DB.Close()
}

// ScanFirstValue is a helper function to scan the first value with the assumption that Rows contains
// a single row with a single value.
func ScanFirstValue[T any](rows *sql.Rows, dest *T) error {
	if rows.Next() {
		if err := rows.Scan(dest); err != nil {
			return err
		}
	}
	return rows.Err()
}
