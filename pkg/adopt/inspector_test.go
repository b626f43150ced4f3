// SPDX-License-Identifier: Apache-2.0

package adopt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/pgadopt/pkg/catalog"
	"github.com/voyago/pgadopt/pkg/db"
	"github.com/voyago/pgadopt/pkg/state"
)

// stubInspector serves canned schema facts without a database.
type stubInspector struct {
	tables  map[string]bool
	columns map[string]bool
	types   map[string]bool
}

func (s *stubInspector) TableExists(_ context.Context, _, table string) (bool, error) {
	return s.tables[table], nil
}

func (s *stubInspector) ColumnExists(_ context.Context, _, table, column string) (bool, error) {
	return s.columns[table+"."+column], nil
}

func (s *stubInspector) TypeExists(_ context.Context, name string) (bool, error) {
	return s.types[name], nil
}

func TestWithInspectorOverridesCatalogProbes(t *testing.T) {
	t.Parallel()

	stub := &stubInspector{
		tables:  map[string]bool{"organizations": true},
		columns: map[string]bool{"organizations.currency": true},
		types:   map[string]bool{"booking_status": true},
	}

	fake := &db.FakeDB{}
	a := New(fake, "public", state.New(fake, state.DefaultSchema), WithInspector(stub))

	snap, err := a.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, catalog.Snapshot{
		HasOrganizations:        true,
		HasBookingStatusType:    true,
		HasOrganizationCurrency: true,
		LegacyTablesDropped:     true,
	}, snap)

	tag, ok := Resolve(snap)
	assert.True(t, ok)
	assert.Equal(t, "0002_drop-legacy-schedule-availability", tag)
}
