package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/bilingo/internal/platform/migrate"
	"github.com/pressly/goose/v3"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryDSN opens a private in-memory database.
const MemoryDSN = "file::memory:"

// defaultParams are added to the DSN unless it already mentions the setting.
var defaultParams = []struct{ setting, param string }{
	{setting: "busy_timeout", param: "_pragma=busy_timeout(5000)"},
	{setting: "foreign_keys", param: "_pragma=foreign_keys(1)"},
	{setting: "_time_format", param: "_time_format=sqlite"},
}

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the embedded SQLite schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}

// Open opens the SQLite database at dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection: SQLite allows a single writer, and an in-memory
	// database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return db, nil
}

// Migrate runs a goose command ("up", "down", "status" or "version") against db.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	return migrate.Run(ctx, db, goose.DialectSQLite3, Migrations(), command, logger)
}

func withPragmas(dsn string) string {
	var extra []string
	for _, d := range defaultParams {
		if !strings.Contains(dsn, d.setting) {
			extra = append(extra, d.param)
		}
	}
	if len(extra) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(extra, "&")
}
