package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost:5001", cfg.Server.Addr)
		assert.Equal(t, 5, cfg.Server.FanoutLimit)
		assert.Equal(t, config.CacheBackendSQLite, cfg.Cache.Backend)
		assert.Equal(t, 30*24*time.Hour, cfg.Cache.TTL)
		assert.Equal(t, 2, cfg.Upstream.FetchAttempts)
		assert.Equal(t, 500*time.Millisecond, cfg.Upstream.RetryDelay)
		assert.Equal(t, 30*time.Second, cfg.Upstream.FetchTimeout)
		assert.Equal(t, "@every 6h", cfg.Warmer.Schedule)
		assert.Equal(t, []string{"http://localhost:3000", "http://localhost"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("CACHE_BACKEND", "Redis")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("FETCH_RETRY_DELAY", "1s")
		t.Setenv("BS_API_RATE_LIMIT", "2.5")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		t.Setenv("WARM_SCHEDULE", "off")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
		assert.Equal(t, config.CacheBackendRedis, cfg.Cache.Backend)
		assert.Equal(t, 3, cfg.Redis.DB)
		assert.Equal(t, time.Second, cfg.Upstream.RetryDelay)
		assert.InDelta(t, 2.5, cfg.Upstream.RateLimit, 1e-9)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
		assert.Empty(t, cfg.Warmer.Schedule)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		tests := map[string]string{
			"FANOUT_LIMIT":   "five",
			"CACHE_TTL":      "30 days",
			"CACHE_BACKEND":  "memcached",
			"FETCH_ATTEMPTS": "0",
		}
		for key, value := range tests {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)
				_, err := config.Load()
				assert.Error(t, err)
			})
		}
	})

	t.Run("unknown backend is identifiable", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "memcached")
		_, err := config.Load()
		assert.ErrorIs(t, err, apperrors.ErrUnknownCacheBackend)
	})
}
