package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textapi/internal/config"
	"textapi/internal/database"
)

func TestUp_SQLite(t *testing.T) {
	db, err := database.NewSQLite(config.DatabaseConfig{SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Up(ctx, db, config.DriverSQLite))

	for _, table := range []string{"files", "analysis_results"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}

	// A second run finds nothing to apply.
	require.NoError(t, Up(ctx, db, config.DriverSQLite))

	provider, err := NewProvider(db, config.DriverSQLite)
	require.NoError(t, err)
	version, err := provider.GetDBVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestNewProvider_Sources(t *testing.T) {
	db, err := database.NewSQLite(config.DatabaseConfig{SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	for _, driver := range []string{config.DriverPostgres, config.DriverSQLite} {
		provider, err := NewProvider(db, driver)
		require.NoError(t, err, driver)
		assert.Len(t, provider.ListSources(), 2, driver)
	}
}

func TestNewProvider_UnknownDriver(t *testing.T) {
	_, err := NewProvider(nil, "mysql")
	assert.ErrorContains(t, err, "no migrations")
}
