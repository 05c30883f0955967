// Package middleware holds the HTTP middleware chain for dinehub.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/response"
)

// Counter counts hits per key inside fixed windows. Hit returns the count
// for the window containing now, including this hit.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit limits each client IP to max requests per window using an
// in-process counter.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	return RateLimitWith(NewMemoryCounter(), max, window)
}

// RateLimitWith limits through c, e.g. Redis so replicas share one budget.
// When c fails the request is let through.
func RateLimitWith(c Counter, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n, err := c.Hit(r.Context(), "rate:"+clientIP(r), window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limit counter unavailable", "error", err)
			} else if n > int64(max) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ─── In-process counter ───────────────────────────────────────────────────────

type slot struct {
	count int64
	ends  time.Time
}

// MemoryCounter keeps windows in a map and sweeps expired ones lazily.
type MemoryCounter struct {
	mu        sync.Mutex
	slots     map[string]*slot
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{slots: map[string]*slot{}, now: time.Now}
}

func (m *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.After(m.nextSweep) {
		for k, s := range m.slots {
			if now.After(s.ends) {
				delete(m.slots, k)
			}
		}
		m.nextSweep = now.Add(window)
	}

	s, ok := m.slots[key]
	if !ok || now.After(s.ends) {
		s = &slot{ends: now.Add(window)}
		m.slots[key] = s
	}
	s.count++
	return s.count, nil
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
