package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/souschef-ai/souschef-go/internal/pipeline"
	"github.com/souschef-ai/souschef-go/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 2 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 5 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// History persists answered questions for later review. If nil, history
	// recording is disabled and GET /api/history returns 404.
	History store.HistoryStore
	// Registry receives all Prometheus metrics owned by the server. If nil,
	// a private registry is created. The same registry backs GET /metrics.
	Registry *prometheus.Registry
}

// Recommender answers a recipe question end to end. *pipeline.Pipeline
// satisfies it; tests inject a fake.
type Recommender interface {
	// Recommend runs the full retrieval and generation flow for question.
	// It never returns an error: failures surface as safe answer text.
	Recommend(ctx context.Context, question string, tier pipeline.Tier) pipeline.Response
}

// Server is the HTTP server that exposes the recipe recommendation pipeline.
type Server struct {
	// rec answers recipe questions; the pipeline in production, a fake in tests.
	rec Recommender
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// history persists answered questions; nil when history is disabled.
	history store.HistoryStore
	// metrics holds all Prometheus metrics owned by this server instance.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// recommendRequest is the JSON body for POST /api/recommend.
type recommendRequest struct {
	// Question is the user's recipe question, in Korean or English.
	Question string `json:"question"`
	// Model selects the answering tier: "fast" (default) or "advanced".
	Model string `json:"model,omitempty"`
}

// recommendResponse is the JSON response for POST /api/recommend.
type recommendResponse struct {
	// Question echoes the question that was answered.
	Question string `json:"question"`
	// Answer is the final answer text, in the language of the question.
	Answer string `json:"answer"`
	// Language is the detected question language ("ko" or "en").
	Language string `json:"language"`
	// Matched reports whether a recipe from the index was matched.
	Matched bool `json:"matched"`
}

// historyEntry is one element of the GET /api/history response.
type historyEntry struct {
	// Question is the recorded question verbatim.
	Question string `json:"question"`
	// Answer is the answer that was returned.
	Answer string `json:"answer"`
	// Language is the detected question language.
	Language string `json:"language"`
	// Matched reports whether a recipe was matched.
	Matched bool `json:"matched"`
	// CreatedAt is the RFC3339 timestamp of the exchange.
	CreatedAt string `json:"createdAt"`
}
