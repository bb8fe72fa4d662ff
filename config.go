package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"canvasmap/internal/config"
	"canvasmap/internal/minimap"
)

// loadConfig reads the config file (or ~/.canvasmap.yaml) and returns it
// together with the validated minimap settings.
func loadConfig(path string) (*config.Config, minimap.Settings, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, minimap.Settings{}, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, minimap.Settings{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, settings, nil
}

// setupLogger logs to logPath, or to fallback when no path is given. The
// TUI owns the terminal and passes a nil fallback, which discards.
func setupLogger(logPath string, verbose bool, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if logPath == "" {
		if fallback == nil {
			return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
		}
		return slog.New(slog.NewTextHandler(fallback, opts)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}
