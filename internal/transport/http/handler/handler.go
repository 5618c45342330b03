package handler

import (
	"log/slog"
	"time"

	"github.com/avelk/chartrelay/internal/config"
	"github.com/avelk/chartrelay/internal/resource"
	"github.com/avelk/chartrelay/internal/storage"
	"github.com/avelk/chartrelay/internal/transport/http/handler/history"
	"github.com/avelk/chartrelay/internal/transport/http/handler/image"
	"github.com/avelk/chartrelay/internal/transport/http/handler/infra"
	"github.com/avelk/chartrelay/internal/transport/http/handler/viewerpage"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Image   *image.Handlers
	Infra   *infra.Handlers
	History *history.Handlers
	Viewer  *viewerpage.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(store *resource.Store, st storage.Storage, cfg *config.Config, logger *slog.Logger) *Repo {
	startTime := time.Now()
	return &Repo{
		Image:   image.New(store, st, logger),
		Infra:   infra.New(cfg.ImagePath, cfg.PollInterval, startTime),
		History: history.New(st, logger),
		Viewer:  viewerpage.New(cfg.PollInterval),
	}
}
