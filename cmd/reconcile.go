// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/voyago/pgadopt/cmd/flags"
	"github.com/voyago/pgadopt/pkg/adopt"
)

func reconcileCmd() *cobra.Command {
	reconcileCmd := &cobra.Command{
		Use:     "reconcile",
		Short:   "Baseline an untracked database against the migration journal",
		Example: "reconcile --journal migrations/meta/_journal.json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.PostgresURL() == "" {
				return errMissingPGURL
			}

			sp, _ := pterm.DefaultSpinner.WithText("Reconciling migration baseline...").Start()

			result, err := adopt.Reconcile(ctx, adopt.Config{
				PostgresURL:  flags.PostgresURL(),
				JournalPath:  flags.Journal(),
				StateSchema:  flags.StateSchema(),
				TargetSchema: flags.Schema(),
			})
			if err != nil {
				sp.Fail(fmt.Sprintf("Reconciliation failed: %s", err))
				return err
			}

			switch result.Outcome {
			case adopt.OutcomeAlreadyTracked:
				sp.Success(fmt.Sprintf("Database is already tracked; nothing to do (run %s)", result.RunID))
			case adopt.OutcomeFreshOrUnrecognized:
				sp.Success(fmt.Sprintf("No baseline needed; schema is fresh or unrecognized (run %s)", result.RunID))
			case adopt.OutcomeBaselined:
				sp.Success(fmt.Sprintf("Baselined %d migration(s) up to %q (run %s)",
					result.RowsInserted, result.ResolvedTag, result.RunID))
			}

			return nil
		},
	}

	return reconcileCmd
}
