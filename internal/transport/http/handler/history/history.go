// Package history exposes the serve-history API backed by storage.
package history

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/avelk/chartrelay/internal/storage"
)

// Handlers holds the dependencies for serve-history HTTP handlers.
type Handlers struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new instance of history handlers.
func New(st storage.Storage, logger *slog.Logger) *Handlers {
	return &Handlers{
		storage: st,
		logger:  logger,
	}
}

// GetLogs returns serve logs, newest first.
// Query params: status, limit (default 100), offset.
func (h *Handlers) GetLogs(w http.ResponseWriter, r *http.Request) {
	filter := storage.LogFilter{Limit: 100}

	if v := r.URL.Query().Get("status"); v != "" {
		status, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		filter.StatusCode = &status
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	logs, err := h.storage.GetServeLogs(filter)
	if err != nil {
		h.logger.Error("failed to query serve logs", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []*storage.ServeLog{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"logs":  logs,
		"count": len(logs),
	})
}

// DeleteLogs removes serve logs older than the given date.
// Query param: older_than (YYYY-MM-DD, required).
func (h *Handlers) DeleteLogs(w http.ResponseWriter, r *http.Request) {
	olderThan := r.URL.Query().Get("older_than")
	if olderThan == "" {
		http.Error(w, "older_than is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	deleted, err := h.storage.DeleteServeLogs(olderThan)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			http.Error(w, "older_than must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to delete serve logs", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"deleted": deleted})
}

// GetStats returns aggregate serve statistics.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.storage.GetServeStats()
	if err != nil {
		h.logger.Error("failed to query serve stats", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
