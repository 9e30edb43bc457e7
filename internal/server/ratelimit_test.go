package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// okHandler marks that a request made it past the middleware under test.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func hitFrom(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func Test_RateLimit_WithinBurst(t *testing.T) {
	t.Parallel()

	rl, stop := newRateLimiter(100, 5, slog.Default())
	defer stop()
	h := rl.middleware(okHandler)

	for i := range 5 {
		if code := hitFrom(h, "127.0.0.1:12345"); code != http.StatusOK {
			t.Errorf("request %d: want 200, got %d", i, code)
		}
	}
}

func Test_RateLimit_ExhaustedBucketRejects(t *testing.T) {
	t.Parallel()

	// Refill rate near zero: the bucket holds exactly the burst.
	rl, stop := newRateLimiter(0.001, 2, slog.Default())
	defer stop()
	h := rl.middleware(okHandler)

	codes := make([]int, 0, 4)
	for range 4 {
		codes = append(codes, hitFrom(h, "10.0.0.1:9999"))
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests must pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests || codes[3] != http.StatusTooManyRequests {
		t.Errorf("post-burst requests must get 429, got %v", codes)
	}
}

func Test_RateLimit_RetryAfterOn429(t *testing.T) {
	t.Parallel()

	rl, stop := newRateLimiter(0.001, 1, slog.Default())
	defer stop()
	h := rl.middleware(okHandler)

	hitFrom(h, "10.0.0.2:1234")

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 must carry a Retry-After header")
	}
}

func Test_RateLimit_BucketsAreKeyedByIP(t *testing.T) {
	t.Parallel()

	rl, stop := newRateLimiter(0.001, 1, slog.Default())
	defer stop()
	h := rl.middleware(okHandler)

	// Exhaust one IP completely.
	for range 5 {
		hitFrom(h, "192.168.1.1:1111")
	}

	if code := hitFrom(h, "192.168.1.2:2222"); code != http.StatusOK {
		t.Errorf("a fresh IP must have its own bucket: want 200, got %d", code)
	}
}

func Test_EvictStale_DropsIdleVisitors(t *testing.T) {
	t.Parallel()

	rl, stop := newRateLimiter(1, 1, slog.Default())
	defer stop()

	rl.allow("1.1.1.1")
	rl.allow("2.2.2.2")

	// Age one entry past the idle cutoff, keep the other fresh.
	rl.mu.Lock()
	rl.visitors["1.1.1.1"].lastSeen = rl.visitors["1.1.1.1"].lastSeen.Add(-2 * staleAfter)
	rl.mu.Unlock()

	rl.evictStale()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["1.1.1.1"]; ok {
		t.Error("idle visitor must be evicted")
	}
	if _, ok := rl.visitors["2.2.2.2"]; !ok {
		t.Error("active visitor must survive eviction")
	}
}

func Test_ClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		remoteAddr string
		want       string
	}{
		{"127.0.0.1:54321", "127.0.0.1"},
		{"10.0.0.1:80", "10.0.0.1"},
		{"::1:8080", "::1"},
		{"noport", "noport"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tc.remoteAddr
		if got := clientIP(req); got != tc.want {
			t.Errorf("clientIP(%q) = %q, want %q", tc.remoteAddr, got, tc.want)
		}
	}
}
