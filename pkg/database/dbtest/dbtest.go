// Package dbtest opens throwaway SQLite databases with the full schema applied.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
)

// Open returns a migrated SQLite database living under t.TempDir().
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "directory.db")
	db, err := database.Connect(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      path,
		MaxConns: 4,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}
