package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/vancomm/minesweeper-board/internal/app"
	"github.com/vancomm/minesweeper-board/internal/config"
	"github.com/vancomm/minesweeper-board/internal/mines"
)

func main() {
	level := config.LogLevel()
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if config.Development() {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	}
	logger := slog.New(handler)
	mines.Log = logger.With(slog.String("component", "mines"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.New(logger).Start(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
