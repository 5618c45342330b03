package config

import (
	"testing"
	"time"
)

func TestGetEnvOrFile(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		fileValue string
		defValue  string
		want      string
	}{
		{"env wins", ":9090", ":7070", ":8080", ":9090"},
		{"file when no env", "", ":7070", ":8080", ":7070"},
		{"default when nothing set", "", "", ":8080", ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TEST_LISTEN_ADDR", tt.envValue)
			}
			got := getEnvOrFile("TEST_LISTEN_ADDR", tt.fileValue, tt.defValue)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEnvBoolOrFile(t *testing.T) {
	truthy := true
	falsy := false

	tests := []struct {
		name      string
		envValue  string
		fileValue *bool
		defValue  bool
		want      bool
	}{
		{"env true", "true", &falsy, false, true},
		{"env 1", "1", nil, false, true},
		{"env other string is false", "nope", &truthy, true, false},
		{"file when no env", "", &falsy, true, false},
		{"default when nothing set", "", nil, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TEST_ENABLE", tt.envValue)
			}
			got := getEnvBoolOrFile("TEST_ENABLE", tt.fileValue, tt.defValue)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvIntervalOrFile(t *testing.T) {
	thirty := 30
	zero := 0

	tests := []struct {
		name      string
		envValue  string
		fileValue *int
		want      time.Duration
	}{
		{"env seconds", "5", &thirty, 5 * time.Second},
		{"file seconds", "", &thirty, 30 * time.Second},
		{"zero falls back to default", "", &zero, DefaultPollInterval},
		{"garbage env falls back", "ten", nil, DefaultPollInterval},
		{"nothing set", "", nil, DefaultPollInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TEST_INTERVAL", tt.envValue)
			}
			got := getEnvIntervalOrFile("TEST_INTERVAL", tt.fileValue, DefaultPollInterval)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultPollInterval(t *testing.T) {
	// The observed refresh cadence of the original viewer
	if DefaultPollInterval != 10*time.Second {
		t.Errorf("DefaultPollInterval = %v, want 10s", DefaultPollInterval)
	}
}
