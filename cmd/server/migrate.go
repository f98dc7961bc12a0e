package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"perfsvc/internal/platform/config"
	"perfsvc/internal/platform/db"
	"perfsvc/migrations"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "List pending migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	newLogger(cfg)
	ctx := cmd.Context()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrateStatus {
		pending, err := db.Pending(ctx, pool, migrations.FS)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
		}
		for _, version := range pending {
			fmt.Fprintln(cmd.OutOrStdout(), "pending", version)
		}
		return nil
	}

	applied, err := db.Migrate(ctx, pool, migrations.FS)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", len(applied))
	return nil
}
