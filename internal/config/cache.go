package config

import "time"

// CacheConfig defines settings for the seat map response cache.  When
// Enabled is false or no Redis client is configured, caching is
// disabled.  Entries are keyed by seat map generation, so TTL only
// controls how long superseded entries linger in Redis.  MaxBodyBytes
// caps what is stored; larger listings are served but not cached.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "seatcache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}
