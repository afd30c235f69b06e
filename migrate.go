package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/user/agency-go/config"
	"github.com/user/agency-go/db"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations embedded in the binary to the configured PostgreSQL database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	cmd.Println("Running migrations...")
	if err := db.RunMigrations(dbCfg.DSN()); err != nil {
		return oops.Code("MIGRATION_FAILED").With("database", dbCfg.DBName).Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
