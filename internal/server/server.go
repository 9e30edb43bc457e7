// Package server implements the HTTP server that exposes the recipe
// recommendation pipeline via a JSON REST API, plus health, readiness,
// history, and Prometheus metrics endpoints.
// The server is started by the `souschef serve` CLI command.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/souschef-ai/souschef-go/internal/logging"
	"github.com/souschef-ai/souschef-go/internal/pipeline"
	"github.com/souschef-ai/souschef-go/internal/store"
)

// historyLimit is the number of entries returned by GET /api/history.
const historyLimit = 50

// New constructs a Server from the provided recommender and config.
func New(rec Recommender, cfg *Config) (*Server, error) {
	if rec == nil {
		return nil, fmt.Errorf("server: recommender must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// WriteTimeout must cover three sequential LLM calls on slow backends.
		cfg.WriteTimeout = 5 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		rec:     rec,
		cfg:     cfg,
		log:     cfg.Logger,
		pingers: cfg.Pingers,
		history: cfg.History,
		metrics: newServerMetrics(cfg.Registry),
	}

	rl, stopRL := newRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.Logger)
	s.stopRL = stopRL

	if cfg.APIKey == "" {
		s.log.Warn("server: SOUSCHEF_API_KEY not set — API authentication disabled")
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/recommend",
		authMiddleware(cfg.APIKey, rl.middleware(http.HandlerFunc(s.handleRecommend))))
	mux.Handle("GET /api/history",
		authMiddleware(cfg.APIKey, http.HandlerFunc(s.handleHistory)))
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      requestLogger(cfg.Logger, s.instrument(mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// Start begins listening and serving HTTP requests. It blocks until the
// context is cancelled, then performs a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server: listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.stopRL()
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		s.stopRL()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// handleRecommend handles POST /api/recommend. It runs the pipeline for the
// question and returns the answer as JSON. The pipeline never fails, so the
// only error responses here are for malformed requests.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	tier, err := pipeline.ParseTier(req.Model)
	if err != nil {
		http.Error(w, "model must be \"fast\" or \"advanced\"", http.StatusBadRequest)
		return
	}

	s.metrics.recommendInFlight.Inc()
	start := time.Now()
	resp := s.rec.Recommend(r.Context(), req.Question, tier)
	elapsed := time.Since(start)
	s.metrics.recommendInFlight.Dec()

	outcome := string(resp.Outcome)
	s.metrics.recommendRequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.recommendDurationSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())

	s.recordHistory(r.Context(), resp)

	log.Info("recommend",
		slog.String("outcome", outcome),
		slog.String("language", langCode(resp.Language)),
		slog.String("model", string(tier)),
		slog.Duration("duration", elapsed),
	)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(recommendResponse{
		Question: resp.Question,
		Answer:   resp.Answer,
		Language: langCode(resp.Language),
		Matched:  resp.Matched,
	}); err != nil {
		log.Error("recommend encode error", slog.Any("error", err))
	}
}

// recordHistory persists the exchange when a history store is configured.
// History failures never affect the client response.
func (s *Server) recordHistory(ctx context.Context, resp pipeline.Response) {
	if s.history == nil {
		return
	}
	err := s.history.Append(ctx, store.Entry{
		Question: resp.Question,
		Answer:   resp.Answer,
		Language: langCode(resp.Language),
		Matched:  resp.Matched,
		Outcome:  string(resp.Outcome),
	})
	if err != nil {
		logging.FromContext(ctx).Warn("history append failed", slog.Any("error", err))
	}
}

// handleHistory handles GET /api/history. Returns the most recent exchanges,
// newest first. 404 when history is disabled.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	if s.history == nil {
		http.Error(w, "history is disabled", http.StatusNotFound)
		return
	}

	entries, err := s.history.Recent(r.Context(), historyLimit)
	if err != nil {
		log.Error("history read failed", slog.Any("error", err))
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}

	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			Question:  e.Question,
			Answer:    e.Answer,
			Language:  e.Language,
			Matched:   e.Matched,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error("history encode error", slog.Any("error", err))
	}
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// langCode maps a pipeline language to its two-letter API code.
func langCode(l pipeline.Language) string {
	if l == pipeline.LanguageKorean {
		return "ko"
	}
	return "en"
}
