// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voyago/pgadopt/cmd/flags"
	"github.com/voyago/pgadopt/internal/connstr"
	"github.com/voyago/pgadopt/pkg/db"
	"github.com/voyago/pgadopt/pkg/state"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the migration tracking schema and table",
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

		if err := state.New(conn, flags.StateSchema()).Init(ctx); err != nil {
			return err
		}

		fmt.Println("Initialization done! The tracking table is ready")
		return nil
	},
}
