// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voyago/pgadopt/cmd/flags"
	"github.com/voyago/pgadopt/internal/connstr"
	"github.com/voyago/pgadopt/pkg/adopt"
	"github.com/voyago/pgadopt/pkg/db"
	"github.com/voyago/pgadopt/pkg/state"
)

// status describes what a reconcile run would find: whether the tracking
// table exists, how many migrations it records, and which ladder rung the
// current catalog resolves to.
type status struct {
	Initialized bool   `json:"initialized"`
	Applied     int    `json:"applied"`
	ResolvedTag string `json:"resolved_tag,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tracking state of the target database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if flags.PostgresURL() == "" {
			return errMissingPGURL
		}

		pgURL, err := connstr.WithConnectTimeout(flags.PostgresURL())
		if err != nil {
			return err
		}

		conn, err := db.Open(ctx, pgURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		st := state.New(conn, flags.StateSchema())
		a := adopt.New(conn, flags.Schema(), st)

		var s status
		s.Initialized, err = st.IsInitialized(ctx)
		if err != nil {
			return err
		}

		if s.Initialized {
			s.Applied, err = st.CountApplied(ctx)
			if err != nil {
				return err
			}
		}

		snap, err := a.Snapshot(ctx)
		if err != nil {
			return err
		}
		s.ResolvedTag, _ = adopt.Resolve(snap)

		statusJSON, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(statusJSON))
		return nil
	},
}
