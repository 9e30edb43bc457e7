package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/souschef-ai/souschef-go/internal/logging"
)

// probeTimeout bounds each dependency probe during a readiness check so a
// hung dependency cannot hold /api/ready open.
const probeTimeout = 5 * time.Second

// Pinger is a dependency that can report its own reachability: nil when
// healthy, a descriptive error otherwise. Implementations must be safe to
// call from multiple goroutines.
type Pinger interface {
	Ping(ctx context.Context) error

	// Name is the short label shown in readiness responses, e.g. "qdrant".
	Name() string
}

// MultiPinger bundles several Pingers into one, for callers that treat a
// group of dependencies as a single readiness unit.
type MultiPinger struct {
	pingers []Pinger
}

// NewMultiPinger constructs a MultiPinger over the given probes.
func NewMultiPinger(pingers ...Pinger) *MultiPinger {
	return &MultiPinger{pingers: pingers}
}

// Ping probes each dependency in order and returns the first failure,
// prefixed with the failing dependency's name. Nil when all are healthy.
func (m *MultiPinger) Ping(ctx context.Context) error {
	for _, p := range m.pingers {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}

// Name identifies the bundle in readiness responses.
func (m *MultiPinger) Name() string { return "multi" }

// readyCheck is one dependency's result within a readiness response.
type readyCheck struct {
	// Name is the dependency label (e.g. "qdrant").
	Name string `json:"name"`
	// OK is true when the dependency responded successfully.
	OK bool `json:"ok"`
	// Error carries the failure reason when OK is false.
	Error string `json:"error,omitempty"`
}

// readyResponse is the JSON body of GET /api/ready.
type readyResponse struct {
	// Ready is true only when every dependency probe succeeded.
	Ready bool `json:"ready"`
	// Checks lists the per-dependency results in registration order.
	Checks []readyCheck `json:"checks"`
}

// handleReady serves GET /api/ready. All registered probes run concurrently,
// each under its own timeout; the response is 200 when every dependency is
// reachable and 503 otherwise. /api/health stays a plain liveness check —
// this endpoint is the one that reflects dependency state.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	checks := make([]readyCheck, len(s.pingers))

	var wg sync.WaitGroup
	for i, p := range s.pingers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(r.Context(), probeTimeout)
			defer cancel()

			err := p.Ping(probeCtx)
			checks[i] = readyCheck{Name: p.Name(), OK: err == nil}
			if err != nil {
				checks[i].Error = err.Error()
			}
		}()
	}
	wg.Wait()

	ready := true
	for _, c := range checks {
		if !c.OK {
			ready = false
			log.Warn("readiness probe failed",
				slog.String("dependency", c.Name),
				slog.String("error", c.Error),
			)
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(readyResponse{Ready: ready, Checks: checks}); err != nil {
		log.Error("ready encode error", slog.Any("error", err))
	}
}
