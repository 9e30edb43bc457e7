package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/souschef-ai/souschef-go/internal/logging"
	"github.com/souschef-ai/souschef-go/internal/server"
	"github.com/souschef-ai/souschef-go/internal/store"
	"github.com/souschef-ai/souschef-go/internal/tracing"
)

// NewServeCmd constructs the `souschef serve` command, which starts the HTTP
// server exposing the recommendation API.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SousChef HTTP server",
		Long: `Start the SousChef HTTP server.

The server exposes POST /api/recommend for recipe questions, plus health,
readiness, history, and Prometheus metrics endpoints. The vector index is
loaded lazily on the first question, so the server starts even while the
vector store is still warming up.

Examples:
  souschef serve
  souschef serve --port 9090
  MODEL_PROVIDER=gemini souschef serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Langfuse tracing — opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			qdrantStore, err := newQdrantStore()
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer qdrantStore.Close()

			p, err := buildPipeline(ctx, newRetrieverSource(qdrantStore, log))
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			// Open the search history store. SOUSCHEF_HISTORY_DB overrides the
			// default path (~/.souschef/history.db); "disabled" turns it off.
			var historyStore store.HistoryStore
			if os.Getenv("SOUSCHEF_HISTORY_DB") != "disabled" {
				dbPath, pathErr := store.DefaultDBPath()
				if pathErr != nil {
					log.Warn("history: could not resolve DB path, disabling", slog.Any("error", pathErr))
				} else {
					hs, hsErr := store.Open(dbPath)
					if hsErr != nil {
						log.Warn("history: failed to open store, disabling", slog.Any("error", hsErr))
					} else {
						historyStore = hs
						defer func() { _ = hs.Close() }()
						log.Info("history: store opened", slog.String("path", dbPath))
					}
				}
			} else {
				log.Info("history: disabled via SOUSCHEF_HISTORY_DB=disabled")
			}

			srv, err := server.New(p, &server.Config{
				Host:      host,
				Port:      port,
				Logger:    log,
				Pingers:   []server.Pinger{server.NewQdrantPinger(qdrantStore)},
				RateLimit: getEnvFloat("SERVER_RATE_LIMIT", 0),
				RateBurst: getEnvInt("SERVER_RATE_BURST", 0),
				APIKey:    os.Getenv("SOUSCHEF_API_KEY"),
				History:   historyStore,
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}
