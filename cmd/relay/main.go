package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelk/chartrelay/internal/app"
	"github.com/avelk/chartrelay/internal/config"
	"github.com/avelk/chartrelay/internal/resource"
	"github.com/avelk/chartrelay/internal/storage"
	"github.com/avelk/chartrelay/internal/transport/http/handler"
	"github.com/avelk/chartrelay/internal/version"
)

func main() {
	logger := setupLogger()
	slog.SetDefault(logger)

	if err := config.EnsureDataDir(); err != nil {
		logger.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	if err := config.EnsureConfigFile(); err != nil {
		logger.Warn("failed to write default config file", "error", err)
	}

	cfg := config.Load()

	st, err := storage.NewSQLiteStorage(config.DBPath())
	if err != nil {
		logger.Error("failed to open storage", "path", config.DBPath(), "error", err)
		os.Exit(1)
	}
	defer st.Close()

	store, err := resource.NewStore(cfg.ImagePath, cfg.CacheMaxBytes)
	if err != nil {
		logger.Error("failed to create resource store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	repo := handler.NewRepo(store, st, cfg, logger)
	router := app.NewRouter(repo, &app.RouterOptions{
		EnableViewerPage:   cfg.EnableViewerPage,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})

	srv := app.NewServer(cfg, router, logger)

	logger.Info("chartrelay", "version", version.Version, "viewer_page", cfg.EnableViewerPage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
