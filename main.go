package main

import (
	"log/slog"
	"os"

	"LocalBoard/internal/config"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/ui"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("LOCALBOARD_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.FromArgs(os.Args)
	if err != nil {
		// a bad link still opens an empty board
		logging.Logger().Warn("ignoring launch link", "err", err)
	}
	logging.Logger().Info("starting", "open", cfg.OpenID, "strategy", cfg.Strategy.String())
	ui.RunApp(cfg)
}
