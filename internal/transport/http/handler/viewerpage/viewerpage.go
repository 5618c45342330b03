// Package viewerpage serves the embedded browser viewer.
package viewerpage

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/avelk/chartrelay/web"
)

// Handlers serves the embedded viewer page and its runtime config.
type Handlers struct {
	PollInterval time.Duration
}

// New creates viewer page handlers.
func New(pollInterval time.Duration) *Handlers {
	return &Handlers{PollInterval: pollInterval}
}

// Config returns the runtime settings the page needs before it starts
// polling.
func (h *Handlers) Config(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"intervalMs":  h.PollInterval.Milliseconds(),
		"resourceUrl": "/resource",
	})
}

// PageHandler creates an HTTP handler for serving the embedded viewer page.
// It serves static files from the embedded filesystem and falls back to
// index.html. The handler expects to be mounted at the /web/ prefix.
func (h *Handlers) PageHandler() http.Handler {
	staticFS, err := fs.Sub(web.FS, ".")
	if err != nil {
		// This should never happen with a valid embed
		panic("failed to create sub filesystem: " + err.Error())
	}

	fileServer := http.FileServer(http.FS(staticFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/web")
		if filePath == "" {
			filePath = "/"
		}

		if filePath != "/" && !strings.HasPrefix(filePath, "/static/") {
			// Only index.html and /static/ exist
			filePath = "/"
		}

		r.URL.Path = filePath
		fileServer.ServeHTTP(w, r)
	})
}
