package main

import (
	"log/slog"
	"os"

	"go-staff-console/internal/app"
	"go-staff-console/internal/logger"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logHandler))

	console, err := app.New()
	if err != nil {
		slog.Error("failed to initialize console", "error", err)
		os.Exit(1)
	}

	if err := console.Run(); err != nil {
		slog.Error("console exited with error", "error", err)
		os.Exit(1)
	}
}
