package main

import (
	"log/slog"
	"os"
	"strings"

	"perfsvc/internal/app/server"
	"perfsvc/internal/domain/performance"
	"perfsvc/internal/platform/config"
)

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func loadLimits(cfg config.Config) (performance.Limits, error) {
	policy, err := config.LoadVolumePolicy(cfg.LimitsFile)
	if err != nil {
		return performance.Limits{}, err
	}
	limits := server.LimitsFromPolicy(policy)
	return limits, limits.Validate()
}
