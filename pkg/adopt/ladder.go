// SPDX-License-Identifier: Apache-2.0

package adopt

import "github.com/voyago/pgadopt/pkg/catalog"

// Rung names one historical migration and the schema facts that must hold
// for its effect to be considered present.
type Rung struct {
	Tag string
	Met func(catalog.Snapshot) bool
}

// The compatibility ladder. One rung per historical migration, in journal
// order. The walk is strictly sequential and cumulative: a rung is only
// considered once every rung before it has been met, because each
// migration's fingerprint is only meaningful on top of the previous ones.
// A database whose catalog happens to match a later rung while failing an
// earlier one resolves to the rungs reached before the failure.
//
// When a new migration ships, append a rung here with the facts that
// distinguish a database that has it from one that does not.
var compatLadder = []Rung{
	{
		Tag: "0000_loving_puck",
		Met: func(s catalog.Snapshot) bool {
			return s.HasOrganizations && s.HasBookingStatusType
		},
	},
	{
		Tag: "0001_curly_vapor",
		Met: func(s catalog.Snapshot) bool {
			return s.HasOrganizationCurrency
		},
	},
	{
		Tag: "0002_drop-legacy-schedule-availability",
		Met: func(s catalog.Snapshot) bool {
			return s.LegacyTablesDropped
		},
	},
}

// Resolve walks the ladder against a snapshot and returns the tag of the
// highest rung whose facts — and all facts before it — hold. ok is false
// when even the first rung fails, i.e. the database is fresh or carries a
// schema the ladder does not recognize.
func Resolve(snap catalog.Snapshot) (tag string, ok bool) {
	for _, rung := range compatLadder {
		if !rung.Met(snap) {
			break
		}
		tag, ok = rung.Tag, true
	}
	return tag, ok
}
