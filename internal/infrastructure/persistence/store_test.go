package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educationaltr/study-tracker/config"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "store.db"),
		ConnectAttempts: 1,
	}

	store, err := Open(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.Equal(t, config.DriverSQLite, store.Driver)
	require.NoError(t, store.Ping(ctx))

	ran, err := store.Migrate(ctx)
	require.NoError(t, err)
	assert.Positive(t, ran)

	ran, err = store.Migrate(ctx)
	require.NoError(t, err)
	assert.Zero(t, ran)

	assert.ErrorIs(t, store.Rollback(ctx), ErrRollbackUnsupported)
}

func TestOpen_UnknownDriverDoesNotRetry(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "oracle", ConnectAttempts: 5}

	_, err := Open(context.Background(), cfg, logger.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown database driver "oracle"`)
}
