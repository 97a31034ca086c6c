package mcpserver

import (
	"time"

	"github.com/erraggy/docschema/internal/config"
)

// serverConfig holds the MCP server limits and cache settings.
// Loaded once at startup from environment variables via loadConfig().
// Validator defaults live in config.Config.
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// Result pagination.
	ResultLimit int
	MaxLimit    int

	// Input limits.
	MaxInlineSize   int64
	MaxFetchSize    int64
	MaxDocPaths     int
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from DOCSCHEMA_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       config.EnvBool("DOCSCHEMA_CACHE_ENABLED", true),
		CacheMaxSize:       config.EnvInt("DOCSCHEMA_CACHE_MAX_SIZE", 10),
		CacheTTL:           config.EnvDuration("DOCSCHEMA_CACHE_TTL", 15*time.Minute),
		CacheSweepInterval: config.EnvDuration("DOCSCHEMA_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ResultLimit:        config.EnvInt("DOCSCHEMA_RESULT_LIMIT", 100),
		MaxLimit:           config.EnvInt("DOCSCHEMA_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(config.EnvInt("DOCSCHEMA_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxFetchSize:       int64(config.EnvInt("DOCSCHEMA_MAX_FETCH_SIZE", 10*1024*1024)),
		MaxDocPaths:        config.EnvInt("DOCSCHEMA_MAX_DOC_PATHS", 50),
		AllowPrivateIPs:    config.EnvBool("DOCSCHEMA_ALLOW_PRIVATE_IPS", false),
	}
}
