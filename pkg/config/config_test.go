package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// The default backend is postgres, which requires a connection URL.
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/olkan")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, time.Hour, cfg.Database.MaxConnLifetime)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "0 0 3 * * *", cfg.Quality.ReassessSchedule)
	assert.Equal(t, time.Hour, cfg.Quality.ReportCacheTTL)
	assert.Equal(t, 8, cfg.Quality.BatchWorkers)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.InDelta(t, 10.0, cfg.RateLimit.RPS, 1e-9)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/olkan.db")
	t.Setenv("QUALITY_BATCH_WORKERS", "16")
	t.Setenv("QUALITY_REPORT_CACHE_TTL", "30m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/olkan.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 16, cfg.Quality.BatchWorkers)
	assert.Equal(t, 30*time.Minute, cfg.Quality.ReportCacheTTL)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			"unknown environment",
			map[string]string{"ENV": "testing", "DATABASE_URL": "postgres://x"},
			"ENV must be one of",
		},
		{
			"postgres requires url",
			map[string]string{"STORAGE_BACKEND": "postgres"},
			"DATABASE_URL is required",
		},
		{
			"unknown backend",
			map[string]string{"STORAGE_BACKEND": "dynamo"},
			"STORAGE_BACKEND must be one of",
		},
		{
			"batch workers must be positive",
			map[string]string{"STORAGE_BACKEND": "file", "QUALITY_BATCH_WORKERS": "0"},
			"QUALITY_BATCH_WORKERS must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_BadValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/olkan")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("QUALITY_REPORT_CACHE_TTL", "soon")
	t.Setenv("REDIS_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, time.Hour, cfg.Quality.ReportCacheTTL)
	assert.True(t, cfg.Redis.Enabled)
}
