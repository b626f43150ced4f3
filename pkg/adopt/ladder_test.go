// SPDX-License-Identifier: Apache-2.0

package adopt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyago/pgadopt/pkg/catalog"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		snapshot catalog.Snapshot
		wantTag  string
		wantOK   bool
	}{
		{
			name:     "empty database resolves to nothing",
			snapshot: catalog.Snapshot{},
			wantOK:   false,
		},
		{
			name: "organizations table alone is not enough for the base migration",
			snapshot: catalog.Snapshot{
				HasOrganizations: true,
			},
			wantOK: false,
		},
		{
			name: "booking_status type alone is not enough for the base migration",
			snapshot: catalog.Snapshot{
				HasBookingStatusType: true,
			},
			wantOK: false,
		},
		{
			name: "base migration requires both the table and the type",
			snapshot: catalog.Snapshot{
				HasOrganizations:     true,
				HasBookingStatusType: true,
			},
			wantTag: "0000_loving_puck",
			wantOK:  true,
		},
		{
			name: "currency column advances to the second rung",
			snapshot: catalog.Snapshot{
				HasOrganizations:        true,
				HasBookingStatusType:    true,
				HasOrganizationCurrency: true,
			},
			wantTag: "0001_curly_vapor",
			wantOK:  true,
		},
		{
			name: "legacy tables dropped advances to the last rung",
			snapshot: catalog.Snapshot{
				HasOrganizations:        true,
				HasBookingStatusType:    true,
				HasOrganizationCurrency: true,
				LegacyTablesDropped:     true,
			},
			wantTag: "0002_drop-legacy-schedule-availability",
			wantOK:  true,
		},
		{
			name: "a later rung holding does not skip over a failed earlier rung",
			snapshot: catalog.Snapshot{
				HasOrganizations:     true,
				HasBookingStatusType: true,
				LegacyTablesDropped:  true,
			},
			wantTag: "0000_loving_puck",
			wantOK:  true,
		},
		{
			name: "later rungs are ignored entirely when the first rung fails",
			snapshot: catalog.Snapshot{
				HasOrganizationCurrency: true,
				LegacyTablesDropped:     true,
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := Resolve(tt.snapshot)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

// The ladder is only coherent if its rungs appear in journal order; guard
// against a rung being appended out of place.
func TestLadderTagsAreOrdered(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(compatLadder); i++ {
		assert.Less(t, compatLadder[i-1].Tag, compatLadder[i].Tag)
	}
}
