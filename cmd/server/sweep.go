package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"perfsvc/internal/app/server"
	"perfsvc/internal/platform/config"
	"perfsvc/internal/platform/jobs"
)

var sweepCmd = &cobra.Command{
	Use:       "sweep <job>",
	Short:     "Run one scheduled job immediately",
	Long:      "Runs a scheduled job once and records it in job_runs. Jobs: " + strings.Join(jobs.Names(), ", ") + ".",
	Args:      cobra.ExactArgs(1),
	ValidArgs: jobs.Names(),
	RunE:      runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(false); err != nil {
		return err
	}
	cfg.RunMigrations = false
	logger := newLogger(cfg)
	limits, err := loadLimits(cfg)
	if err != nil {
		return err
	}

	app, err := server.Build(cmd.Context(), cfg, server.Options{Limits: limits, Logger: logger})
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	result, err := app.Jobs.RunNow(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
