package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full configuration surface of one run, resolved from the
// environment once at startup and immutable afterwards.
type Config struct {
	SteamID   string
	AppID     int
	ContextID int
	Currency  int // Steam ECurrencyCode, 1 = USD

	PaceInterval time.Duration // minimum spacing between price queries
	PageDelay    time.Duration // minimum spacing between inventory pages
	PageSize     int
	MaxPages     int
	HTTPTimeout  time.Duration

	CacheFile string
	CacheTTL  time.Duration
	RedisAddr string // when set, the price cache lives in Redis instead of the file
	RedisKey  string

	MySQLDSN    string
	PostgresDSN string
}

func Load() (Config, error) {
	cfg := Config{
		SteamID:      os.Getenv("STEAM_ID"),
		AppID:        envInt("APP_ID", 730),
		ContextID:    envInt("CONTEXT_ID", 2),
		Currency:     envInt("CURRENCY", 1),
		PaceInterval: envDuration("PACE_INTERVAL", 3*time.Second),
		PageDelay:    envDuration("PAGE_DELAY", 2*time.Second),
		PageSize:     envInt("PAGE_SIZE", 1000),
		MaxPages:     envInt("MAX_PAGES", 50),
		HTTPTimeout:  envDuration("HTTP_TIMEOUT", 30*time.Second),
		CacheFile:    envString("PRICE_CACHE_FILE", "price_cache.json"),
		CacheTTL:     envDuration("CACHE_TTL", time.Hour),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisKey:     os.Getenv("REDIS_CACHE_KEY"),
		MySQLDSN:     os.Getenv("MYSQL_DSN"),
		PostgresDSN:  os.Getenv("PG_DSN"),
	}

	if cfg.SteamID == "" {
		return Config{}, errors.New("STEAM_ID is required")
	}
	if cfg.PageSize < 1 {
		return Config{}, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	if cfg.MaxPages < 1 {
		return Config{}, fmt.Errorf("MAX_PAGES must be positive, got %d", cfg.MaxPages)
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
