// SPDX-License-Identifier: Apache-2.0

// Package catalog reads schema facts from the Postgres catalog. All queries
// are read-only; the reconciler decides what the facts mean.
package catalog

import (
	"context"

	"github.com/voyago/pgadopt/pkg/db"
)

// Inspector answers existence questions about objects in the database
// catalog.
type Inspector interface {
	TableExists(ctx context.Context, schema, table string) (bool, error)
	ColumnExists(ctx context.Context, schema, table, column string) (bool, error)
	TypeExists(ctx context.Context, name string) (bool, error)
}

// PGInspector implements Inspector over information_schema and pg_catalog.
type PGInspector struct {
	conn db.DB
}

func NewInspector(conn db.DB) *PGInspector {
	return &PGInspector{conn: conn}
}

func (i *PGInspector) TableExists(ctx context.Context, schema, table string) (bool, error) {
	var exists bool
	err := i.conn.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)`, schema, table).Scan(&exists)

	return exists, err
}

func (i *PGInspector) ColumnExists(ctx context.Context, schema, table, column string) (bool, error) {
	var exists bool
	err := i.conn.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = $1 AND table_name = $2 AND column_name = $3
		)`, schema, table, column).Scan(&exists)

	return exists, err
}

func (i *PGInspector) TypeExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := i.conn.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM pg_catalog.pg_type WHERE typname = $1
		)`, name).Scan(&exists)

	return exists, err
}
