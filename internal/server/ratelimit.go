package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/souschef-ai/souschef-go/internal/logging"
)

// Per-IP token bucket defaults. One recommendation fans out to as many as
// three LLM calls, so the sustained rate is kept low; the burst absorbs a
// user firing a couple of follow-up questions in quick succession.
const (
	defaultRateLimit = 2
	defaultRateBurst = 5
)

// Eviction tuning for the per-IP bucket map.
const (
	evictInterval = time.Minute
	staleAfter    = 5 * time.Minute
)

// visitor tracks one client IP: its token bucket and when it last made a
// request, so idle entries can be dropped.
type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// rateLimiter enforces a per-IP token-bucket limit on the routes it wraps.
// The visitors map is bounded by periodic eviction of idle IPs.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	log      *slog.Logger
}

// newRateLimiter builds a rateLimiter and starts its eviction goroutine.
// Calling the returned stop function terminates the goroutine; the server
// does so during shutdown.
func newRateLimiter(rps float64, burst int, log *slog.Logger) (*rateLimiter, func()) {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		log:      log,
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(evictInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				rl.evictStale()
			}
		}
	}()

	return rl, func() { close(stop) }
}

// allow consumes one token from ip's bucket, creating the bucket on first
// sight, and reports whether the request may proceed.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.bucket.Allow()
}

// evictStale drops IPs that have been idle longer than staleAfter.
func (rl *rateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// middleware rejects over-limit requests with 429 and a Retry-After hint
// before they reach the handler, so a single client cannot drain the LLM
// call budget for everyone else.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.allow(ip) {
			logging.FromContext(r.Context()).Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr by cutting at the last colon,
// which also handles bare IPv6 literals. X-Forwarded-For is deliberately
// ignored: this server fronts no proxy by default, and a spoofable header
// must not feed the limiter key.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
