package app

import (
	"log/slog"
	"net/http"

	"github.com/avelk/chartrelay/internal/transport/http/handler"
	"github.com/avelk/chartrelay/internal/transport/http/middleware"
	"github.com/avelk/chartrelay/internal/transport/http/middleware/ratelimit"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	EnableViewerPage   bool
	RateLimitPerMinute int
	Logger             *slog.Logger
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Resource endpoint, with its original-name alias, optionally rate
	// limited per client IP
	var getResource http.Handler = http.HandlerFunc(repo.Image.GetResource)
	if opts.RateLimitPerMinute > 0 {
		limiter := ratelimit.New(opts.RateLimitPerMinute)
		getResource = ratelimit.Middleware(limiter)(getResource)
	}
	mux.Handle("GET /resource", getResource)
	mux.Handle("GET /powerbi-image", getResource)

	// Infra routes
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)
	mux.HandleFunc("GET /{$}", repo.Infra.RootStatus)

	// Serve history
	mux.HandleFunc("GET /api/logs", repo.History.GetLogs)
	mux.HandleFunc("DELETE /api/logs", repo.History.DeleteLogs)
	mux.HandleFunc("GET /api/stats", repo.History.GetStats)

	// Embedded browser viewer (if enabled)
	if opts.EnableViewerPage {
		page := repo.Viewer.PageHandler()
		mux.HandleFunc("GET /web/config.json", repo.Viewer.Config)
		mux.Handle("GET /web", page)
		mux.Handle("GET /web/", page)
	}

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	// Request logging (if logger provided)
	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	// Request ID (always applied)
	h = middleware.RequestID(h)

	// CORS (always applied for cross-origin polling)
	h = middleware.CORS(h)

	return h
}
