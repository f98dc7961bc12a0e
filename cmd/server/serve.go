package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"perfsvc/internal/app/server"
	"perfsvc/internal/platform/config"
)

var serveMemory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, scheduled jobs and employee event consumer",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Keep all data in memory and skip postgres, redis and kafka")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(serveMemory); err != nil {
		return err
	}
	logger := newLogger(cfg)
	limits, err := loadLimits(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.Build(ctx, cfg, server.Options{Memory: serveMemory, Limits: limits, Logger: logger})
	if err != nil {
		return err
	}
	defer app.Close(context.Background())
	return app.Run(ctx)
}
