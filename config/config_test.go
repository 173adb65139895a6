package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noDotenv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Address())
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "admin123", cfg.Auth.AdminPassword)
	assert.True(t, cfg.Features.IsEnabled(FeatureRegistration))
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/tracker")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FEATURE_REGISTRATION", "false")

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.False(t, cfg.Features.IsEnabled(FeatureRegistration))
	assert.Error(t, cfg.Features.Require(FeatureRegistration))
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_NAME=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("APP_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.App.Name)
}

func TestLoad_CollectsValidationErrors(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("HTTP_PORT", "0")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load(noDotenv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration errors:")
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")

	_, err := Load(noDotenv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load(noDotenv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}
