package config // package config loads application configuration from environment variables

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; every variable has a default so the service
// starts with an empty environment.
type Config struct {
	Env             string        // APP_ENV, e.g. "dev" or "prod"
	Port            string        // APP_PORT, HTTP port to listen on
	SeatCount       int           // SEAT_COUNT, size of the seat map
	SeedReserved    bool          // SEED_RESERVED, pre-reserve random seats at startup
	SeedRatio       float64       // SEED_RESERVED_RATIO, chance a seat is pre-reserved
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT, grace period for in-flight requests

	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Queue     QueueConfig
}

// Load reads a .env file from the working directory when present and then
// builds a Config from the environment.  Variables already set in the
// environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "8080"),
		SeatCount:       envInt("SEAT_COUNT", 40),
		SeedReserved:    envBool("SEED_RESERVED", false),
		SeedRatio:       envFloat("SEED_RESERVED_RATIO", 0.3),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis:           LoadRedisConfig(),
		Cache:           LoadCacheConfig(),
		RateLimit:       LoadRateLimitConfig(),
		Queue:           LoadQueueConfig(),
	}
	if cfg.SeatCount < 1 {
		cfg.SeatCount = 40
	}
	if cfg.SeedRatio < 0 || cfg.SeedRatio > 1 {
		cfg.SeedRatio = 0.3
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg, nil
}
