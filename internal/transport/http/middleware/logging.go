package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestLogger emits one line per request after the response is written:
// method, path, status, body bytes, duration, request ID. The byte count
// comes from the wrapped writer, so image responses report their real size
// rather than Content-Length.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &serveWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status,
				"bytes", ww.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", GetRequestID(r.Context()),
			)
		})
	}
}

// serveWriter records the status code and body size of a served response.
type serveWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *serveWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *serveWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}
