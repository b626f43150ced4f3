// SPDX-License-Identifier: Apache-2.0

package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/voyago/pgadopt/pkg/db"
	"github.com/voyago/pgadopt/pkg/journal"
)

// DefaultSchema is the schema holding the migration tracking table. The
// names match what the downstream migration toolchain expects to find, so
// that it picks up where the baseline leaves off.
const DefaultSchema = "drizzle"

const trackingTable = "__drizzle_migrations"

const sqlInit = `
CREATE SCHEMA IF NOT EXISTS %[1]s;

CREATE TABLE IF NOT EXISTS %[1]s.%[2]s (
	id			BIGSERIAL PRIMARY KEY,
	hash		TEXT NOT NULL,
	created_at	BIGINT
);
`

// BaselineHashPrefix marks tracking rows inserted by the reconciler rather
// than by a real migration run.
const BaselineHashPrefix = "baseline:"

// State manages the migration tracking table.
type State struct {
	conn   db.DB
	schema string
}

func New(conn db.DB, schema string) *State {
	return &State{
		conn:   conn,
		schema: schema,
	}
}

// Init ensures the tracking schema and table exist. It has no preconditions
// and is safe to run any number of times.
func (s *State) Init(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, fmt.Sprintf(sqlInit,
		pq.QuoteIdentifier(s.schema),
		pq.QuoteIdentifier(trackingTable)))

	return err
}

// IsInitialized reports whether the tracking table exists.
func (s *State) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := s.conn.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)`, s.schema, trackingTable).Scan(&exists)

	return exists, err
}

// CountApplied returns the number of rows in the tracking table. A non-zero
// count means the database is already under migration tracking.
func (s *State) CountApplied(ctx context.Context) (int, error) {
	rows, err := s.conn.QueryContext(ctx,
		fmt.Sprintf("SELECT count(*) FROM %s.%s",
			pq.QuoteIdentifier(s.schema),
			pq.QuoteIdentifier(trackingTable)))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int
	if err := db.ScanFirstValue(rows, &count); err != nil {
		return 0, err
	}

	return count, nil
}

// InsertBaseline records the given journal entries as already applied,
// inside a single transaction. Each insert is guarded on `created_at` so a
// row that already exists is never duplicated. Returns the number of rows
// actually inserted; on error the transaction rolls back and nothing is
// recorded.
func (s *State) InsertBaseline(ctx context.Context, entries []journal.Entry) (int, error) {
	stmt := fmt.Sprintf(`
		INSERT INTO %[1]s.%[2]s (hash, created_at)
		SELECT $1, $2
		WHERE NOT EXISTS (
			SELECT 1 FROM %[1]s.%[2]s WHERE created_at = $2
		)`,
		pq.QuoteIdentifier(s.schema),
		pq.QuoteIdentifier(trackingTable))

	var inserted int
	err := s.conn.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, e := range entries {
			res, err := tx.ExecContext(ctx, stmt, BaselineHashPrefix+e.Tag, e.When)
			if err != nil {
				return fmt.Errorf("recording baseline for %q: %w", e.Tag, err)
			}

			rows, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(rows)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// AppliedTimestamps returns the created_at values present in the tracking
// table in ascending order.
func (s *State) AppliedTimestamps(ctx context.Context) ([]int64, error) {
	rows, err := s.conn.QueryContext(ctx,
		fmt.Sprintf("SELECT created_at FROM %s.%s ORDER BY created_at",
			pq.QuoteIdentifier(s.schema),
			pq.QuoteIdentifier(trackingTable)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}

	return out, rows.Err()
}
