package testutils

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/bilingo/internal/platform/migrate"
	"github.com/phrazzld/bilingo/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewSQLiteDB opens a private in-memory SQLite database with all migrations
// applied. The database is closed when the test ends.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err, "failed to open sqlite test database")
	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, sqlite.Migrate(ctx, db, migrate.CommandUp, DiscardLogger()),
		"failed to migrate sqlite test database")

	return db
}
