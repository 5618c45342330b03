package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/avelk/chartrelay/internal/config"
	"github.com/avelk/chartrelay/internal/resource"
	"github.com/avelk/chartrelay/internal/storage"
	"github.com/avelk/chartrelay/internal/transport/http/handler"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 1, 2, 3, 4}

func newTestRouter(t *testing.T, imageData []byte, opts *RouterOptions) http.Handler {
	t.Helper()

	dir := t.TempDir()
	imagePath := filepath.Join(dir, "chart.png")
	if imageData != nil {
		if err := os.WriteFile(imagePath, imageData, 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	st, err := storage.NewSQLiteStorage(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	store, err := resource.NewStore(imagePath, 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(store.Close)

	cfg := &config.Config{
		ImagePath:    imagePath,
		PollInterval: config.DefaultPollInterval,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := handler.NewRepo(store, st, cfg, logger)

	if opts == nil {
		opts = &RouterOptions{EnableViewerPage: true, Logger: logger}
	}
	return NewRouter(repo, opts)
}

func doGet(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ResourceRoutes(t *testing.T) {
	router := newTestRouter(t, pngBytes, nil)

	for _, path := range []string{"/resource", "/powerbi-image"} {
		rec := doGet(router, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
			continue
		}
		if !bytes.Equal(rec.Body.Bytes(), pngBytes) {
			t.Errorf("GET %s: body differs from file contents", path)
		}
	}
}

func TestRouter_ResourceAbsent(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := doGet(router, "/resource")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_InfraRoutes(t *testing.T) {
	router := newTestRouter(t, pngBytes, nil)

	rec := doGet(router, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	var health map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("health: invalid JSON: %v", err)
	}
	if health["app"] != "chartrelay" {
		t.Errorf("health app = %v", health["app"])
	}

	rec = doGet(router, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("root: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected request ID header from middleware chain")
	}
}

func TestRouter_HistoryRoutes(t *testing.T) {
	router := newTestRouter(t, pngBytes, nil)

	// Generate one serve log entry
	doGet(router, "/resource")

	rec := doGet(router, "/api/logs")
	if rec.Code != http.StatusOK {
		t.Fatalf("logs: expected 200, got %d", rec.Code)
	}
	var logsResp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &logsResp); err != nil {
		t.Fatalf("logs: invalid JSON: %v", err)
	}
	if logsResp.Count != 1 {
		t.Errorf("expected 1 logged serve, got %d", logsResp.Count)
	}

	rec = doGet(router, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	var stats storage.ServeStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("stats: invalid JSON: %v", err)
	}
	if stats.TotalRequests != 1 {
		t.Errorf("expected 1 total request, got %d", stats.TotalRequests)
	}
}

func TestRouter_DeleteLogs(t *testing.T) {
	router := newTestRouter(t, pngBytes, nil)
	doGet(router, "/resource")

	doDelete := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := doDelete("/api/logs")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing older_than: expected 400, got %d", rec.Code)
	}

	rec = doDelete("/api/logs?older_than=last-tuesday")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed older_than: expected 400, got %d", rec.Code)
	}

	rec = doDelete("/api/logs?older_than=2020-01-01")
	if rec.Code != http.StatusOK {
		t.Fatalf("valid older_than: expected 200, got %d", rec.Code)
	}

	// Today's entry is newer than the cutoff and must survive
	rec = doGet(router, "/api/logs")
	var logsResp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &logsResp); err != nil {
		t.Fatalf("logs: invalid JSON: %v", err)
	}
	if logsResp.Count != 1 {
		t.Errorf("expected 1 remaining log, got %d", logsResp.Count)
	}
}

func TestRouter_ViewerPage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("enabled", func(t *testing.T) {
		router := newTestRouter(t, pngBytes, &RouterOptions{EnableViewerPage: true, Logger: logger})

		rec := doGet(router, "/web")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !bytes.Contains(rec.Body.Bytes(), []byte("chartrelay")) {
			t.Error("viewer page body missing app name")
		}

		rec = doGet(router, "/web/config.json")
		if rec.Code != http.StatusOK {
			t.Fatalf("config.json: expected 200, got %d", rec.Code)
		}
		var cfg struct {
			IntervalMs int64 `json:"intervalMs"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
			t.Fatalf("config.json: invalid JSON: %v", err)
		}
		if cfg.IntervalMs != config.DefaultPollInterval.Milliseconds() {
			t.Errorf("intervalMs = %d, want %d", cfg.IntervalMs, config.DefaultPollInterval.Milliseconds())
		}
	})

	t.Run("disabled", func(t *testing.T) {
		router := newTestRouter(t, pngBytes, &RouterOptions{EnableViewerPage: false, Logger: logger})

		rec := doGet(router, "/web")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 when disabled, got %d", rec.Code)
		}
	})
}

func TestRouter_RateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := newTestRouter(t, pngBytes, &RouterOptions{RateLimitPerMinute: 1, Logger: logger})

	rec := doGet(router, "/resource")
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec = doGet(router, "/resource")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}

	// Non-resource routes are not limited
	rec = doGet(router, "/api/health")
	if rec.Code != http.StatusOK {
		t.Errorf("health should not be rate limited, got %d", rec.Code)
	}
}
