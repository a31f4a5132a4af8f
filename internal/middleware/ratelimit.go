package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RateLimiter provides fixed-window per-IP rate limiting. Counters live
// in an expiring in-memory cache, so idle clients are evicted without a
// hand-rolled janitor goroutine.
type RateLimiter struct {
	counters *gocache.Cache
	limit    int64
	window   time.Duration
}

// NewRateLimiter creates a rate limiter that allows limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counters: gocache.New(window, 2*window),
		limit:    int64(limit),
		window:   window,
	}
}

// allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) allow(key string) bool {
	// Add is a no-op when a counter already exists, so the window expiry
	// set on first sight sticks for the whole window.
	rl.counters.Add(key, int64(0), rl.window)
	n, err := rl.counters.IncrementInt64(key, 1)
	if err != nil {
		// Counter expired between Add and Increment. Start a fresh window.
		rl.counters.Set(key, int64(1), rl.window)
		return rl.limit >= 1
	}
	return n <= rl.limit
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// The first entry is the originating client.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
