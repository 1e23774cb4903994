package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":1812", cfg.AuthListenAddr)
	assert.Equal(t, ":1813", cfg.AcctListenAddr)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, "radius:events", cfg.EventChannel)
	assert.Equal(t, "testing123", cfg.FallbackSecret)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AUTH_LISTEN_ADDR", "127.0.0.1:11812")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("FALLBACK_SECRET", "other")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:11812", cfg.AuthListenAddr)
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
	assert.Equal(t, "other", cfg.FallbackSecret)
}
