// SPDX-License-Identifier: Apache-2.0

package adopt

import "github.com/google/uuid"

type Outcome string

const (
	// The tracking table already has rows; nothing was touched.
	OutcomeAlreadyTracked Outcome = "already-tracked"

	// No rung of the compatibility ladder matched; the database is either
	// brand new or carries a schema the ladder does not recognize. Nothing
	// was inserted.
	OutcomeFreshOrUnrecognized Outcome = "fresh-or-unrecognized"

	// Baseline rows were inserted for the resolved prefix.
	OutcomeBaselined Outcome = "baselined"
)

// Result describes the terminal state of a single reconcile run.
type Result struct {
	// RunID correlates the run in pipeline logs.
	RunID uuid.UUID `json:"run_id"`

	Outcome Outcome `json:"outcome"`

	// Tag of the highest migration resolved as already applied. Empty
	// unless the outcome is Baselined.
	ResolvedTag string `json:"resolved_tag,omitempty"`

	// Number of tracking rows inserted by this run.
	RowsInserted int `json:"rows_inserted"`
}
