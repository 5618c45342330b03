package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ListenAddr          string `toml:"listen_addr"`
	ImagePath           string `toml:"image_path"`
	PollIntervalSeconds *int   `toml:"poll_interval_seconds"`
	EnableViewerPage    *bool  `toml:"enable_viewer_page"`
	RateLimitPerMinute  *int   `toml:"rate_limit_per_minute"`
	CacheMaxBytes       *int64 `toml:"cache_max_bytes"`
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Ensure directory exists
	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# chartrelay Configuration
# listen_addr = ":8080"

# Path the export pipeline writes the chart image to.
# image_path = "/var/lib/chartrelay/chart.png"

# Refresh interval advertised to the embedded viewer page, in seconds.
# poll_interval_seconds = 10

# Embedded browser viewer at /web.
# enable_viewer_page = true

# Per-client-IP request cap on /resource. 0 disables limiting.
# rate_limit_per_minute = 0

# Upper bound for the in-memory image cache, in bytes.
# cache_max_bytes = 67108864
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
