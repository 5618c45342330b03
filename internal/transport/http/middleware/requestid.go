// Package middleware carries the ambient HTTP concerns of the relay:
// request IDs, request logging, and CORS for the browser viewer.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey keeps request-scoped values from colliding with other packages.
type contextKey string

// RequestIDKey is the context key the request ID rides under.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader is the header the ID is read from and echoed back on.
const RequestIDHeader = "X-Request-ID"

// GetRequestID returns the request ID from the context, or "" outside the
// middleware chain.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestID tags every request with an ID, honoring one supplied by the
// caller. The ID is set on the response header and the context so serve log
// rows can be matched to log lines.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = "req_" + uuid.NewString()[:8]
		}

		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
