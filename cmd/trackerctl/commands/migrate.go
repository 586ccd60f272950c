package commands

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()
			return database.MigrateUp(cmd.Context())
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()
			return database.MigrateDown(cmd.Context())
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the state of every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()
			return database.MigrationStatus(cmd.Context(), cmd.OutOrStdout())
		},
	})

	return migrateCmd
}
