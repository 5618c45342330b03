package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the chartrelay data directory.
// - Windows: %APPDATA%\chartrelay
// - Other OS: ~/.chartrelay
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "chartrelay")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".chartrelay"
	}
	return filepath.Join(home, ".chartrelay")
}

// ConfigPath returns the path to the config file (~/.chartrelay/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// DBPath returns the path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "chartrelay.db")
}

// DefaultImagePath returns the path served when image_path is not configured.
// The export pipeline is expected to overwrite this file in place.
func DefaultImagePath() string {
	return filepath.Join(DataDir(), "chart.png")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
