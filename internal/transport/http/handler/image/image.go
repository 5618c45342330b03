// Package image serves the chart image maintained by the export pipeline.
package image

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avelk/chartrelay/internal/resource"
	"github.com/avelk/chartrelay/internal/storage"
	"github.com/avelk/chartrelay/internal/transport/http/middleware"
)

// Handlers holds the dependencies for the resource endpoint.
type Handlers struct {
	store   *resource.Store
	storage storage.Storage
	logger  *slog.Logger
}

// New creates resource endpoint handlers. st may be nil to disable serve
// history recording.
func New(store *resource.Store, st storage.Storage, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:   store,
		storage: st,
		logger:  logger,
	}
}

// GetResource returns the current image bytes.
//
//	200: full file contents, image content type, strong ETag
//	304: If-None-Match matched the current ETag
//	404: plain text, file absent at read time
//	500: plain text, unexpected read failure
//
// Each request is independent; the file is re-read (or cache-validated)
// every time because the export pipeline replaces it without notice.
func (h *Handlers) GetResource(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry := storage.ServeLog{
		RequestID: middleware.GetRequestID(r.Context()),
	}

	blob, cacheHit, err := h.store.Read()
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			entry.StatusCode = http.StatusNotFound
			http.Error(w, "resource not found", http.StatusNotFound)
		} else {
			h.logger.Error("resource read failed", "path", h.store.Path(), "error", err)
			entry.StatusCode = http.StatusInternalServerError
			entry.ErrorMessage = err.Error()
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		h.record(entry, start)
		return
	}

	entry.ContentType = blob.ContentType
	entry.ETag = blob.ETag
	entry.CacheHit = cacheHit

	if match := r.Header.Get("If-None-Match"); match != "" && match == blob.ETag {
		entry.StatusCode = http.StatusNotModified
		w.Header().Set("ETag", blob.ETag)
		w.WriteHeader(http.StatusNotModified)
		h.record(entry, start)
		return
	}

	entry.StatusCode = http.StatusOK
	entry.Bytes = blob.Size

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	w.Header().Set("ETag", blob.ETag)
	if _, err := w.Write(blob.Data); err != nil {
		h.logger.Warn("write response failed", "error", err)
	}

	h.record(entry, start)
}

// record stores the serve log entry, best effort.
func (h *Handlers) record(entry storage.ServeLog, start time.Time) {
	if h.storage == nil {
		return
	}

	entry.DurationMs = time.Since(start).Milliseconds()
	if err := h.storage.LogServe(&entry); err != nil {
		h.logger.Warn("failed to record serve log", "error", err)
	}
}
