package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFillsDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 5*time.Minute, c.MarketSource.CacheTTL)
	assert.Equal(t, 30*time.Second, c.MarketSource.Timeout)
	assert.Contains(t, c.MarketSource.URL, "markets/all?isActive=true")
	assert.Equal(t, SessionBackendMemory, c.Session.Backend)
	assert.Equal(t, 24*time.Hour, c.Session.IdleTTL)
	assert.Equal(t, "info", c.Log.Level)
	assert.False(t, c.UsesRedis())
}

func TestParseKeepsExplicitValues(t *testing.T) {
	yml := `
environment: production
server:
  port: 9090
market_source:
  url: http://localhost:1234/markets
  cache_ttl: 30s
  shared_cache: true
session:
  backend: redis
  max_pools: 5
`
	c, err := Parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "http://localhost:1234/markets", c.MarketSource.URL)
	assert.Equal(t, 30*time.Second, c.MarketSource.CacheTTL)
	assert.Equal(t, 5, c.Session.MaxPools)
	assert.True(t, c.UsesRedis())
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	_, err := Parse([]byte("environment: test\nsession:\n  backend: postgres\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.backend")
}

func TestValidateSharedCacheNeedsRedis(t *testing.T) {
	_, err := Parse([]byte("environment: test\nmarket_source:\n  shared_cache: true\n"))
	require.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	env := map[string]string{
		"MARKET_SOURCE_URL": "http://upstream/markets",
		"SESSION_BACKEND":   "redis",
		"REDIS_HOST":        "cache",
		"HTTP_PORT":         "7000",
	}
	require.NoError(t, c.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "http://upstream/markets", c.MarketSource.URL)
	assert.Equal(t, SessionBackendRedis, c.Session.Backend)
	assert.Equal(t, "cache", c.Redis.Host)
	assert.Equal(t, 7000, c.Server.Port)

	err = c.applyEnv(func(k string) string {
		if k == "HTTP_PORT" {
			return "eighty"
		}
		return ""
	})
	require.Error(t, err)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: test\nserver:\n  port: 8181\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, c.Server.Port)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
