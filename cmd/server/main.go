// Package main implements the entry point for the bilingo API server, which
// stores users' bilingual flashcards and schedules their reviews.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/bilingo/internal/config"
	"github.com/phrazzld/bilingo/internal/platform/logger"
	"github.com/spf13/pflag"
)

// migrateFlag selects migration mode instead of serving HTTP.
const migrateFlag = "migrate"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run parses args, loads configuration and either executes a migration
// command or serves HTTP until ctx is canceled.
func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("bilingo-server", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	migrateCmd := fs.String(migrateFlag, "", "run a migration command (up, down, status, version) and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadWithFlags(fs)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if *migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return migrateDatabase(ctx, cfg.Database.Driver, db, *migrateCmd, log)
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
