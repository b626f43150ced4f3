// SPDX-License-Identifier: Apache-2.0

package state_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/pgadopt/pkg/journal"
	"github.com/voyago/pgadopt/pkg/state"
	"github.com/voyago/pgadopt/pkg/testutils"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

func TestInitIsIdempotent(t *testing.T) {
	t.Parallel()

	testutils.WithUninitializedState(t, func(st *state.State) {
		ctx := context.Background()

		ok, err := st.IsInitialized(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, st.Init(ctx))
		require.NoError(t, st.Init(ctx))

		ok, err = st.IsInitialized(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCountAppliedOnFreshTrackingTable(t *testing.T) {
	t.Parallel()

	testutils.WithStateAndConnectionToContainer(t, func(st *state.State, _ *sql.DB) {
		count, err := st.CountApplied(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestInsertBaselineRecordsPrefix(t *testing.T) {
	t.Parallel()

	testutils.WithStateAndConnectionToContainer(t, func(st *state.State, db *sql.DB) {
		ctx := context.Background()

		entries := []journal.Entry{
			{Idx: 0, When: 100, Tag: "0000_loving_puck"},
			{Idx: 1, When: 200, Tag: "0001_curly_vapor"},
		}

		inserted, err := st.InsertBaseline(ctx, entries)
		require.NoError(t, err)
		assert.Equal(t, 2, inserted)

		count, err := st.CountApplied(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		timestamps, err := st.AppliedTimestamps(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff([]int64{100, 200}, timestamps); diff != "" {
			t.Errorf("applied timestamps mismatch (-want +got):\n%s", diff)
		}

		// the hash column carries the synthetic baseline marker
		var hash string
		err = db.QueryRowContext(ctx,
			`SELECT hash FROM "drizzle"."__drizzle_migrations" WHERE created_at = 100`).Scan(&hash)
		require.NoError(t, err)
		assert.Equal(t, "baseline:0000_loving_puck", hash)
	})
}

func TestInsertBaselineSkipsExistingTimestamps(t *testing.T) {
	t.Parallel()

	testutils.WithStateAndConnectionToContainer(t, func(st *state.State, _ *sql.DB) {
		ctx := context.Background()

		entries := []journal.Entry{
			{Idx: 0, When: 100, Tag: "0000_loving_puck"},
		}

		inserted, err := st.InsertBaseline(ctx, entries)
		require.NoError(t, err)
		assert.Equal(t, 1, inserted)

		// a second pass over the same entries inserts nothing
		inserted, err = st.InsertBaseline(ctx, entries)
		require.NoError(t, err)
		assert.Zero(t, inserted)

		count, err := st.CountApplied(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestCountAppliedSeesToolchainRows(t *testing.T) {
	t.Parallel()

	testutils.WithStateAndConnectionToContainer(t, func(st *state.State, db *sql.DB) {
		ctx := context.Background()

		// a row inserted by the real migration toolchain counts as tracked
		_, err := db.ExecContext(ctx,
			`INSERT INTO "drizzle"."__drizzle_migrations" (hash, created_at) VALUES ('abcdef', 100)`)
		require.NoError(t, err)

		count, err := st.CountApplied(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
