package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/templui/carepledge/internal/apperr"
)

// RateLimiter tracks request counts per IP address
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int           // Max requests allowed, 0 disables limiting
	window   time.Duration // Time window for rate limiting
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow checks if request from IP should be allowed
func (rl *RateLimiter) Allow(ip string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	// Remove old requests outside time window
	valid := rl.requests[ip][:0]
	for _, reqTime := range rl.requests[ip] {
		if reqTime.After(cutoff) {
			valid = append(valid, reqTime)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false
	}

	rl.requests[ip] = append(valid, now)
	return true
}

// Run removes idle IPs every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup removes IPs with no recent requests
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window * 2) // Keep data for 2x window

	for ip, requests := range rl.requests {
		if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
			delete(rl.requests, ip)
		}
	}
}

// RateLimit rejects requests from an IP over the limiter's budget with
// 429 RATE_LIMITED.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			if !limiter.Allow(ip) {
				slog.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
				)
				apperr.Write(w, apperr.New(apperr.CodeRateLimited, "Too many requests. Please try again later."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts real client IP from request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr without port
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}
