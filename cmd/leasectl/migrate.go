package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segyhp/equipment-lease/internal/app"
	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Example: `  # Migrate to the latest schema
  leasectl migrate

  # Show the applied version only
  leasectl migrate --status`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Bool("status", false, "Print the current schema version without migrating")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	statusOnly, _ := cmd.Flags().GetBool("status")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := app.OpenDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if !statusOnly {
		if err := migration.RunMigrations(db.DB); err != nil {
			return err
		}
	}

	version, dirty, err := migration.Version(db.DB)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
	return nil
}
