// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
)

// Schema objects probed when deciding how much migration history a legacy
// database already carries.
const (
	organizationsTable = "organizations"
	bookingStatusType  = "booking_status"
	currencyColumn     = "currency"

	// Dropped by the drop-legacy-schedule-availability migration; their
	// absence is the fingerprint of that migration having run.
	legacySchedulesTable    = "schedules"
	legacyAvailabilityTable = "availability"
)

// Snapshot is a read-only record of the schema facts observed in a single
// probe pass. It is recomputed fresh on every run and never persisted.
type Snapshot struct {
	HasOrganizations        bool
	HasBookingStatusType    bool
	HasOrganizationCurrency bool

	// True only when both legacy tables are absent.
	LegacyTablesDropped bool
}

// TakeSnapshot probes the catalog once and returns the resulting facts.
// `schema` is the application schema the migrations target, usually public.
func TakeSnapshot(ctx context.Context, ins Inspector, schema string) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.HasOrganizations, err = ins.TableExists(ctx, schema, organizationsTable); err != nil {
		return Snapshot{}, fmt.Errorf("probing for %q table: %w", organizationsTable, err)
	}

	if snap.HasBookingStatusType, err = ins.TypeExists(ctx, bookingStatusType); err != nil {
		return Snapshot{}, fmt.Errorf("probing for %q type: %w", bookingStatusType, err)
	}

	if snap.HasOrganizationCurrency, err = ins.ColumnExists(ctx, schema, organizationsTable, currencyColumn); err != nil {
		return Snapshot{}, fmt.Errorf("probing for %q column: %w", currencyColumn, err)
	}

	hasSchedules, err := ins.TableExists(ctx, schema, legacySchedulesTable)
	if err != nil {
		return Snapshot{}, fmt.Errorf("probing for %q table: %w", legacySchedulesTable, err)
	}
	hasAvailability, err := ins.TableExists(ctx, schema, legacyAvailabilityTable)
	if err != nil {
		return Snapshot{}, fmt.Errorf("probing for %q table: %w", legacyAvailabilityTable, err)
	}
	snap.LegacyTablesDropped = !hasSchedules && !hasAvailability

	return snap, nil
}
