// Package viewer implements the polling viewer: a repeating fetch of a
// single remote image on a fixed interval, with a cancellable session per
// activation. Fetch failures are transient by design; the loop keeps polling
// until an image appears and keeps the last good image across failures.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avelk/chartrelay/internal/config"
)

// Config configures a Viewer.
type Config struct {
	// URL of the resource endpoint, e.g. "http://localhost:8080/resource"
	URL string

	// Interval between fetches. Defaults to config.DefaultPollInterval.
	Interval time.Duration

	// Client used for fetches. Defaults to http.DefaultClient. Per-fetch
	// timeouts are enforced with request contexts, not the client timeout.
	Client *http.Client

	// Logger for per-cycle failures and state transitions.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// OnUpdate, if set, is called with each new snapshot after an applied
	// fetch result. It runs on the session goroutine with the session lock
	// held: it must not block and must not call Session.Stop or
	// Session.Snapshot (the snapshot is the argument).
	OnUpdate func(Snapshot)
}

// Viewer builds polling sessions against one resource URL. A single Viewer
// can start any number of independent sessions.
type Viewer struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger
	onUpdate func(Snapshot)
}

// New creates a Viewer from cfg.
func New(cfg Config) (*Viewer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("viewer: URL is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}

	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Viewer{
		url:      cfg.URL,
		interval: interval,
		client:   client,
		logger:   logger,
		onUpdate: cfg.OnUpdate,
	}, nil
}

// Start activates a polling session: one immediate fetch, then one per
// interval tick until the session is stopped or ctx is cancelled. The
// returned session is owned by the caller; concurrent sessions do not
// interfere with each other.
func (v *Viewer) Start(ctx context.Context) *Session {
	sctx, cancel := context.WithCancel(ctx)

	s := &Session{
		url:      v.url,
		interval: v.interval,
		client:   v.client,
		logger:   v.logger,
		onUpdate: v.onUpdate,
		cancel:   cancel,
		done:     make(chan struct{}),
		snap:     Snapshot{State: StateLoading},
	}

	go s.run(sctx)
	return s
}
