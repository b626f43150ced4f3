// SPDX-License-Identifier: Apache-2.0

// Package adopt makes a pre-existing, migration-untracked database adoptable
// by the migration toolchain. It resolves how much of the declared migration
// history is already materialized in the schema and inserts synthetic
// tracking rows for exactly that prefix, without replaying any DDL.
package adopt

import (
	"context"

	"github.com/google/uuid"

	"github.com/voyago/pgadopt/internal/connstr"
	"github.com/voyago/pgadopt/pkg/catalog"
	"github.com/voyago/pgadopt/pkg/db"
	"github.com/voyago/pgadopt/pkg/journal"
	"github.com/voyago/pgadopt/pkg/state"
)

// Config carries everything a reconcile run needs. There is no ambient
// state: the same configuration always produces the same run.
type Config struct {
	// PostgresURL identifies the target database. Required.
	PostgresURL string

	// JournalPath is the location of the migration journal file. Required.
	JournalPath string

	// StateSchema holds the tracking table. Defaults to state.DefaultSchema.
	StateSchema string

	// TargetSchema is the application schema the migrations act on.
	// Defaults to public.
	TargetSchema string
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.StateSchema == "" {
		out.StateSchema = state.DefaultSchema
	}
	if out.TargetSchema == "" {
		out.TargetSchema = "public"
	}
	return out
}

// Reconcile is the one-shot entrypoint: it validates the configuration,
// reads the journal, connects, and runs the reconciliation. Configuration
// problems surface before any connection attempt.
func Reconcile(ctx context.Context, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	if cfg.PostgresURL == "" {
		return nil, configErrorf("no Postgres URL configured")
	}

	jrnl, err := journal.ReadJournal(cfg.JournalPath)
	if err != nil {
		return nil, &ConfigError{Reason: "invalid migration journal", Err: err}
	}

	pgURL, err := connstr.WithConnectTimeout(cfg.PostgresURL)
	if err != nil {
		return nil, &ConfigError{Reason: "invalid Postgres URL", Err: err}
	}

	conn, err := db.Open(ctx, pgURL)
	if err != nil {
		return nil, dbError("connecting to database", err)
	}
	defer conn.Close()

	a := New(conn, cfg.TargetSchema, state.New(conn, cfg.StateSchema))

	return a.Reconcile(ctx, jrnl)
}

// Adopter orchestrates a reconcile run over an already-open connection.
type Adopter struct {
	conn db.DB

	// schema we are probing
	schema string

	state     *state.State
	inspector catalog.Inspector
}

func New(conn db.DB, schema string, st *state.State, opts ...Option) *Adopter {
	options := &options{}
	for _, o := range opts {
		o(options)
	}

	inspector := options.inspector
	if inspector == nil {
		inspector = catalog.NewInspector(conn)
	}

	return &Adopter{
		conn:      conn,
		schema:    schema,
		state:     st,
		inspector: inspector,
	}
}

// Reconcile runs the baseline reconciliation against the journal:
//
//  1. Ensure the tracking schema/table exist (idempotent).
//  2. If the tracking table has rows the database is already tracked;
//     return without probing anything.
//  3. Probe the catalog once and walk the compatibility ladder.
//  4. If no rung matches, the database is fresh or unrecognized; done.
//  5. Otherwise insert one tracking row per journal entry up to and
//     including the resolved one, in a single transaction.
func (a *Adopter) Reconcile(ctx context.Context, jrnl *journal.Journal) (*Result, error) {
	result := &Result{RunID: uuid.New()}

	if err := a.state.Init(ctx); err != nil {
		return nil, dbError("initializing tracking table", err)
	}

	applied, err := a.state.CountApplied(ctx)
	if err != nil {
		return nil, dbError("counting applied migrations", err)
	}
	if applied > 0 {
		result.Outcome = OutcomeAlreadyTracked
		return result, nil
	}

	snap, err := catalog.TakeSnapshot(ctx, a.inspector, a.schema)
	if err != nil {
		return nil, dbError("probing database state", err)
	}

	tag, ok := Resolve(snap)
	if !ok {
		result.Outcome = OutcomeFreshOrUnrecognized
		return result, nil
	}

	resolved, ok := jrnl.ByTag(tag)
	if !ok {
		return nil, configErrorf("journal does not declare migration %q", tag)
	}

	inserted, err := a.state.InsertBaseline(ctx, jrnl.Prefix(resolved.Idx))
	if err != nil {
		return nil, dbError("inserting baseline rows", err)
	}

	result.Outcome = OutcomeBaselined
	result.ResolvedTag = tag
	result.RowsInserted = inserted

	return result, nil
}

// Snapshot exposes the catalog probe for status reporting.
func (a *Adopter) Snapshot(ctx context.Context) (catalog.Snapshot, error) {
	return catalog.TakeSnapshot(ctx, a.inspector, a.schema)
}

// State returns the state manager the adopter writes through.
func (a *Adopter) State() *state.State {
	return a.state
}
