package main

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/persistmap/internal/cli"
	"github.com/dmitrijs2005/persistmap/internal/config"
	"github.com/dmitrijs2005/persistmap/internal/logging"
	"github.com/dmitrijs2005/persistmap/internal/store"
)

func main() {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.LoadConfig()

	st, err := store.OpenOrCreate(cfg.DBPath, store.Options{
		CompactThreshold: cfg.CompactThreshold,
		Logger:           logger,
	})
	if err != nil {
		logger.Error(ctx, "failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	app := cli.NewApp(st, os.Stdout, logger)

	// Prompts are only useful when a human is typing; piped input gets
	// clean output.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	scanner := bufio.NewScanner(os.Stdin)
	if err := cli.Run(ctx, app, scanner, os.Stdout, interactive); err != nil {
		logger.Error(ctx, "command loop failed", "error", err)
		os.Exit(1)
	}
}
