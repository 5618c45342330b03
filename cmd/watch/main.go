// Command watch follows the resource endpoint from the terminal: it runs a
// polling viewer session, logs every state transition, and optionally
// mirrors the latest image to a local file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/avelk/chartrelay/internal/config"
	"github.com/avelk/chartrelay/internal/viewer"
)

func main() {
	var (
		url      = flag.String("url", "http://localhost:8080/resource", "resource endpoint to poll")
		interval = flag.Duration("interval", config.DefaultPollInterval, "poll interval")
		out      = flag.String("out", "", "write the latest image to this file (optional)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Coalescing handoff from the session goroutine: the callback must not
	// block, so it drops a stale pending snapshot in favor of the new one.
	updates := make(chan viewer.Snapshot, 1)

	v, err := viewer.New(viewer.Config{
		URL:      *url,
		Interval: *interval,
		Logger:   logger,
		OnUpdate: func(snap viewer.Snapshot) {
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snap:
			default:
			}
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := v.Start(ctx)
	logger.Info("watching resource", "url", *url, "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			session.Stop()
			<-session.Done()
			logger.Info("stopped")
			return
		case snap := <-updates:
			handleUpdate(logger, *out, snap)
		}
	}
}

func handleUpdate(logger *slog.Logger, out string, snap viewer.Snapshot) {
	if snap.State != viewer.StateDisplaying {
		if snap.Err != nil {
			logger.Warn("poll failed", "state", snap.State.String(), "error", snap.Err)
		}
		return
	}

	logger.Info("new image",
		"bytes", len(snap.Image),
		"content_type", snap.ContentType,
		"etag", snap.ETag,
		"fetched_at", snap.FetchedAt.Format(time.RFC3339),
	)

	if out == "" {
		return
	}
	if err := writeAtomic(out, snap.Image); err != nil {
		logger.Error("failed to write image", "path", out, "error", err)
	}
}

// writeAtomic writes data via a temp file and rename so readers never see a
// partial image.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".watch-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
