//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/phrazzld/bilingo/internal/config"
	"github.com/phrazzld/bilingo/internal/platform/migrate"
	"github.com/phrazzld/bilingo/internal/platform/postgres"
	"github.com/phrazzld/bilingo/internal/store"
	"github.com/phrazzld/bilingo/internal/store/storetest"
	"github.com/phrazzld/bilingo/internal/testutils"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to DATABASE_URL, applies migrations and empties the
// cards table. Tests are skipped when DATABASE_URL is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		URL:          url,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db, migrate.CommandUp, testutils.DiscardLogger()))

	_, err = db.ExecContext(ctx, `TRUNCATE cards`)
	require.NoError(t, err)
	return db
}

func TestPostgresCardStore(t *testing.T) {
	storetest.RunCardStoreTests(t, func(t *testing.T) (store.CardStore, *sql.DB) {
		db := openTestDB(t)
		return postgres.NewPostgresCardStore(db, testutils.DiscardLogger()), db
	})
}
