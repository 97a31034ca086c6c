package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearDocschemaEnv clears the server's DOCSCHEMA_* env vars to isolate tests from the ambient environment.
func clearDocschemaEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOCSCHEMA_CACHE_ENABLED", "DOCSCHEMA_CACHE_MAX_SIZE",
		"DOCSCHEMA_CACHE_TTL", "DOCSCHEMA_CACHE_SWEEP_INTERVAL",
		"DOCSCHEMA_RESULT_LIMIT", "DOCSCHEMA_MAX_LIMIT",
		"DOCSCHEMA_MAX_INLINE_SIZE", "DOCSCHEMA_MAX_FETCH_SIZE",
		"DOCSCHEMA_MAX_DOC_PATHS", "DOCSCHEMA_ALLOW_PRIVATE_IPS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearDocschemaEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 100, c.ResultLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, int64(10*1024*1024), c.MaxFetchSize)
	assert.Equal(t, 50, c.MaxDocPaths)
	assert.False(t, c.AllowPrivateIPs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearDocschemaEnv(t)
	t.Setenv("DOCSCHEMA_CACHE_ENABLED", "false")
	t.Setenv("DOCSCHEMA_CACHE_MAX_SIZE", "50")
	t.Setenv("DOCSCHEMA_CACHE_TTL", "2m")
	t.Setenv("DOCSCHEMA_CACHE_SWEEP_INTERVAL", "30s")
	t.Setenv("DOCSCHEMA_RESULT_LIMIT", "20")
	t.Setenv("DOCSCHEMA_MAX_LIMIT", "200")
	t.Setenv("DOCSCHEMA_MAX_INLINE_SIZE", "1024")
	t.Setenv("DOCSCHEMA_MAX_DOC_PATHS", "5")
	t.Setenv("DOCSCHEMA_ALLOW_PRIVATE_IPS", "true")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 2*time.Minute, c.CacheTTL)
	assert.Equal(t, 30*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 20, c.ResultLimit)
	assert.Equal(t, 200, c.MaxLimit)
	assert.Equal(t, int64(1024), c.MaxInlineSize)
	assert.Equal(t, 5, c.MaxDocPaths)
	assert.True(t, c.AllowPrivateIPs)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearDocschemaEnv(t)
	t.Setenv("DOCSCHEMA_CACHE_ENABLED", "sometimes")
	t.Setenv("DOCSCHEMA_RESULT_LIMIT", "-5")
	t.Setenv("DOCSCHEMA_CACHE_TTL", "forever")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 100, c.ResultLimit)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
}
