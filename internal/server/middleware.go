package server

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/souschef-ai/souschef-go/internal/logging"
)

// requestLogger tags every request with a random request_id, stores a child
// logger carrying it in the request context, and logs one summary line per
// request on completion. Handlers retrieve the logger with
// logging.FromContext so all their output correlates by request_id.
func requestLogger(base *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := base.With(
			slog.String("request_id", newRequestID()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		r = r.WithContext(logging.WithLogger(r.Context(), log))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		log.Info("request",
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// instrument records per-request HTTP metrics. The handler label is the mux
// pattern that matched, read after ServeHTTP, keeping label cardinality
// bounded no matter what paths clients send.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}

		s.metrics.httpRequestsTotal.
			WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		s.metrics.httpDurationSeconds.
			WithLabelValues(r.Method, pattern).Observe(elapsed.Seconds())
	})
}

// statusRecorder captures the status code a handler writes so middleware can
// log and count it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// newRequestID returns 8 random bytes hex-encoded. The zero fallback cannot
// occur with crypto/rand on supported platforms but keeps the signature
// error-free.
func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(b)
}
