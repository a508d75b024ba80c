package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_UpAndDown(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "carepledge.db")
	database, err := Open(context.Background(), DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { Close(database) })

	require.NoError(t, RunMigrations(database.DB, DriverSQLite))
	version, err := goose.GetDBVersion(database.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// Re-running is a no-op
	require.NoError(t, RunMigrations(database.DB, DriverSQLite))

	require.NoError(t, MigrateDown(database.DB, DriverSQLite))
	version, err = goose.GetDBVersion(database.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var tables int
	require.NoError(t, database.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'staff'`))
	assert.Zero(t, tables)
}

func TestIsMemoryDSN(t *testing.T) {
	assert.True(t, isMemoryDSN(":memory:"))
	assert.True(t, isMemoryDSN("file:test?mode=memory&cache=shared"))
	assert.False(t, isMemoryDSN("./data/carepledge.db"))
}

func TestGetDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", getDialect(DriverSQLite))
	assert.Equal(t, "postgres", getDialect(DriverPostgres))
	assert.Equal(t, "mysql", getDialect("mysql"))
}
