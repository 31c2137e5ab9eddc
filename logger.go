package main

import (
	"log/slog"
	"os"
)

// newLogger returns a configured slog.Logger based on configuration.
func newLogger(cfg *Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
