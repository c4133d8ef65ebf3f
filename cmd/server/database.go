package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bilingo/internal/config"
	"github.com/phrazzld/bilingo/internal/platform/postgres"
	"github.com/phrazzld/bilingo/internal/platform/sqlite"
	"github.com/phrazzld/bilingo/internal/store"
)

// openDatabase connects to the configured backend.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = postgres.Open(ctx, cfg)
	case config.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("database connection established", slog.String("driver", cfg.Driver))
	return db, nil
}

// migrateDatabase runs a goose command with the migrations for driver.
func migrateDatabase(ctx context.Context, driver string, db *sql.DB, command string, logger *slog.Logger) error {
	switch driver {
	case config.DriverPostgres:
		return postgres.Migrate(ctx, db, command, logger)
	case config.DriverSQLite:
		return sqlite.Migrate(ctx, db, command, logger)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

// newCardStore returns the card store implementation for driver.
func newCardStore(driver string, db *sql.DB, logger *slog.Logger) (store.CardStore, error) {
	switch driver {
	case config.DriverPostgres:
		return postgres.NewPostgresCardStore(db, logger), nil
	case config.DriverSQLite:
		return sqlite.NewCardStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
