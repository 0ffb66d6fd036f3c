package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/staybook")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("LOCK_TTL", "")
	t.Setenv("PROPERTY_CACHE_SIZE", "")

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "postgres://localhost/staybook", cfg.DatabaseURL)
	require.Equal(t, 10*time.Second, cfg.LockTTL)
	require.Equal(t, int64(1000), cfg.PropertyCacheSize)
	require.Equal(t, "booking_status_changes", cfg.NotifyQueue)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/staybook")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("PORT", "7000")
	t.Setenv("LOCK_TTL", "3s")
	t.Setenv("PROPERTY_CACHE_TTL", "nope")
	t.Setenv("PROPERTY_CACHE_SIZE", "50")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()
	require.Equal(t, "7000", cfg.Port)
	require.Equal(t, 3*time.Second, cfg.LockTTL)
	require.Equal(t, 30*time.Second, cfg.PropertyCacheTTL)
	require.Equal(t, int64(50), cfg.PropertyCacheSize)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.Panics(t, func() { Load() })
}

func TestApp_IsProd(t *testing.T) {
	require.True(t, App{Env: "prod"}.IsProd())
	require.True(t, App{Env: "production"}.IsProd())
	require.False(t, App{Env: "dev"}.IsProd())
	require.False(t, App{}.IsProd())
}
