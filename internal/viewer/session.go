package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Session is one activation of the polling cycle. It owns the timer and the
// display handle; no state survives deactivation.
type Session struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger
	onUpdate func(Snapshot)

	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	snap    Snapshot
	stopped bool
}

// Stop deactivates the session: the timer is cancelled, an in-flight fetch
// is aborted, and any late completion is discarded. Safe to call multiple
// times.
func (s *Session) Stop() {
	s.cancel()
	s.markInactive()
}

// Done is closed once the polling goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the current display handle.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.markInactive()

	// First fetch happens immediately, before any tick elapses.
	s.poll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Fetches run serially on this goroutine; a fetch that
			// outlives the interval absorbs the ticks it missed.
			s.poll(ctx)
		}
	}
}

// poll performs one fetch cycle and applies the outcome unless the session
// was deactivated in the meantime.
func (s *Session) poll(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	start := time.Now()
	res, err := s.fetch(fetchCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Deactivated mid-fetch; result discarded, nothing to report.
			return
		}
		s.applyFailure(err)
		return
	}

	if res == nil {
		// 304: the held image is still current.
		s.applyUnchanged()
		return
	}

	s.logger.Debug("fetched resource",
		"bytes", len(res.data),
		"etag", res.etag,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.applySuccess(res)
}

// fetched is the raw outcome of a 200 response.
type fetched struct {
	data        []byte
	contentType string
	etag        string
}

// fetch performs the HTTP GET. Returns (nil, nil) on 304 Not Modified.
func (s *Session) fetch(ctx context.Context) (*fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	s.mu.Lock()
	etag := s.snap.ETag
	s.mu.Unlock()
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch resource: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		return &fetched{
			data:        data,
			contentType: resp.Header.Get("Content-Type"),
			etag:        resp.Header.Get("ETag"),
		}, nil
	case resp.StatusCode == http.StatusNotModified:
		return nil, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
}

// applySuccess replaces the display handle. The prior image slice is
// dropped here, so repeated polls do not accumulate memory.
func (s *Session) applySuccess(res *fetched) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.snap = Snapshot{
		State:       StateDisplaying,
		Image:       res.data,
		ContentType: res.contentType,
		ETag:        res.etag,
		FetchedAt:   time.Now(),
	}

	if s.onUpdate != nil {
		s.onUpdate(s.snap)
	}
}

// applyUnchanged refreshes the fetch time after a 304 without touching the
// held image. No update callback: there is nothing new to render.
func (s *Session) applyUnchanged() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.snap.State = StateDisplaying
	s.snap.FetchedAt = time.Now()
	s.snap.Err = nil
}

// applyFailure records the error and keeps the last good image visible. The
// cycle continues; the next tick retries.
func (s *Session) applyFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.logger.Warn("fetch failed, keeping last image", "url", s.url, "error", err)

	s.snap.State = StateError
	s.snap.Err = err

	if s.onUpdate != nil {
		s.onUpdate(s.snap)
	}
}

// markInactive transitions to the terminal state and releases the display
// handle. Idempotent.
func (s *Session) markInactive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.stopped = true
	s.snap = Snapshot{State: StateInactive}
}
