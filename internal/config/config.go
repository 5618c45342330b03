package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultPollInterval matches the refresh cadence of the original viewer.
const DefaultPollInterval = 10 * time.Second

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ListenAddr is the address to bind the server to (e.g., ":8080")
	ListenAddr string

	// ImagePath is the fixed filesystem path the export pipeline writes to
	ImagePath string

	// PollInterval is the refresh interval advertised to the embedded
	// viewer page and used as the watcher default
	PollInterval time.Duration

	// EnableViewerPage enables the embedded browser viewer at /web
	EnableViewerPage bool

	// RateLimitPerMinute caps /resource requests per client IP (0 = off)
	RateLimitPerMinute int

	// CacheMaxBytes bounds the in-memory image cache
	CacheMaxBytes int64
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	fileConfig, _ := LoadFile() // Ignore error, use defaults

	return &Config{
		ListenAddr:         getEnvOrFile("LISTEN_ADDR", fileConfig.ListenAddr, ":8080"),
		ImagePath:          getEnvOrFile("IMAGE_PATH", fileConfig.ImagePath, DefaultImagePath()),
		PollInterval:       getEnvIntervalOrFile("POLL_INTERVAL_SECONDS", fileConfig.PollIntervalSeconds, DefaultPollInterval),
		EnableViewerPage:   getEnvBoolOrFile("ENABLE_VIEWER_PAGE", fileConfig.EnableViewerPage, true),
		RateLimitPerMinute: getEnvIntOrFile("RATE_LIMIT_PER_MINUTE", fileConfig.RateLimitPerMinute, 0),
		CacheMaxBytes:      getEnvInt64OrFile("CACHE_MAX_BYTES", fileConfig.CacheMaxBytes, 64<<20),
	}
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order)
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvInt64OrFile returns env int64, file int64, or default (in priority order)
func getEnvInt64OrFile(key string, fileValue *int64, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvIntervalOrFile resolves a whole-seconds setting into a duration.
// Zero or negative values fall back to the default.
func getEnvIntervalOrFile(key string, fileValue *int, defaultValue time.Duration) time.Duration {
	seconds := 0
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			seconds = n
		}
	}
	if seconds == 0 && fileValue != nil {
		seconds = *fileValue
	}
	if seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
