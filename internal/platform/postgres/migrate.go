package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/phrazzld/bilingo/internal/platform/migrate"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the embedded PostgreSQL schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}

// Migrate runs a goose command ("up", "down", "status" or "version") against db.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	return migrate.Run(ctx, db, goose.DialectPostgres, Migrations(), command, logger)
}
