// Package migrate applies embedded SQL schema migrations with goose.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// Supported commands
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownCommand is returned for a command Run does not support.
var ErrUnknownCommand = errors.New("unknown migration command")

// Run executes command against db using the migrations in fsys.
// "up" applies all pending migrations, "down" rolls back the latest one,
// "status" logs the state of every migration and "version" logs the current
// schema version.
func Run(
	ctx context.Context,
	db *sql.DB,
	dialect goose.Dialect,
	fsys fs.FS,
	command string,
	logger *slog.Logger,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("dialect", string(dialect)),
	)

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	switch command {
	case CommandUp:
		results, err := provider.Up(ctx)
		for _, r := range results {
			logResult(log, r)
		}
		if err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Info("migrations applied", slog.Int("count", len(results)))

	case CommandDown:
		result, err := provider.Down(ctx)
		if result != nil {
			logResult(log, result)
		}
		if err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}

	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		for _, st := range statuses {
			attrs := []any{
				slog.Int64("version", st.Source.Version),
				slog.String("path", st.Source.Path),
				slog.String("state", string(st.State)),
			}
			if !st.AppliedAt.IsZero() {
				attrs = append(attrs, slog.Time("applied_at", st.AppliedAt))
			}
			log.Info("migration status", attrs...)
		}

	case CommandVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		log.Info("current schema version", slog.Int64("version", version))

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	return nil
}

func logResult(log *slog.Logger, r *goose.MigrationResult) {
	attrs := []any{
		slog.Int64("version", r.Source.Version),
		slog.String("path", r.Source.Path),
		slog.String("direction", r.Direction),
		slog.Int64("duration_ms", r.Duration.Milliseconds()),
	}
	if r.Error != nil {
		log.Error("migration failed", append(attrs, slog.String("error", r.Error.Error()))...)
		return
	}
	log.Info("migration applied", attrs...)
}
