package infra

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avelk/chartrelay/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"name":     "chartrelay",
		"version":  version.Version,
		"status":   "running",
		"resource": "/resource",
		"viewer":   "/web",
		"api":      "/api",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":           "active",
		"app":              "chartrelay",
		"uptime_seconds":   int64(time.Since(h.StartTime).Seconds()),
		"poll_interval_ms": h.PollInterval.Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
