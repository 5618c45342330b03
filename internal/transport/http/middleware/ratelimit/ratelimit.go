// Package ratelimit provides rate limiting middleware using token bucket algorithm.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket represents a token bucket for rate limiting.
type bucket struct {
	tokens   float64
	lastFill time.Time
	mu       sync.Mutex
}

// Limiter tracks rate limits per client IP.
type Limiter struct {
	buckets sync.Map // map[clientIP]*bucket
	perMin  int
}

// New creates a new rate limiter allowing perMinute requests per client IP.
// perMinute <= 0 disables limiting.
func New(perMinute int) *Limiter {
	return &Limiter{perMin: perMinute}
}

// Allow checks if a request from the given client is allowed.
func (l *Limiter) Allow(clientIP string) bool {
	if l.perMin <= 0 {
		return true // 0 = unlimited
	}

	// Get or create bucket for this client
	val, _ := l.buckets.LoadOrStore(clientIP, &bucket{
		tokens:   float64(l.perMin),
		lastFill: time.Now(),
	})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	// Refill tokens based on elapsed time
	now := time.Now()
	elapsed := now.Sub(b.lastFill).Seconds()
	refillRate := float64(l.perMin) / 60.0 // tokens per second
	b.tokens += elapsed * refillRate
	if b.tokens > float64(l.perMin) {
		b.tokens = float64(l.perMin) // cap at max capacity
	}
	b.lastFill = now

	// Check if we have tokens available
	if b.tokens >= 1.0 {
		b.tokens--
		return true
	}
	return false
}

// Middleware returns an HTTP middleware that enforces rate limits per
// client IP.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				writeTooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeTooManyRequests writes a plain-text 429 response.
func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte("rate limit exceeded\n"))
}
