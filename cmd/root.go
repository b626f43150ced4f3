// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voyago/pgadopt/pkg/state"
)

// Version is the pgadopt version, set at build time.
var Version = "development"

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pgadopt",
		Short:        "Adopt a pre-existing Postgres database into migration tracking",
		Version:      Version,
		SilenceUsage: true,
	}

	viper.SetEnvPrefix("PGADOPT")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("postgres-url", "", "Postgres URL of the target database")
	rootCmd.PersistentFlags().String("schema", "public", "Postgres schema the migrations act on")
	rootCmd.PersistentFlags().String("state-schema", state.DefaultSchema, "Postgres schema holding the migration tracking table")
	rootCmd.PersistentFlags().String("journal", "migrations/meta/_journal.json", "Path to the migration journal file")

	viper.BindPFlag("PG_URL", rootCmd.PersistentFlags().Lookup("postgres-url"))
	viper.BindPFlag("SCHEMA", rootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("STATE_SCHEMA", rootCmd.PersistentFlags().Lookup("state-schema"))
	viper.BindPFlag("JOURNAL", rootCmd.PersistentFlags().Lookup("journal"))

	// register subcommands
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)

	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}
