package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/souschef-ai/souschef-go/internal/embedder"
	"github.com/souschef-ai/souschef-go/internal/pipeline"
	"github.com/souschef-ai/souschef-go/internal/provider"
	"github.com/souschef-ai/souschef-go/internal/rag"
)

// defaultCollection is the Qdrant collection holding the recipe index.
const defaultCollection = "souschef-recipes"

// getEnvOrDefault returns the env var value or def when unset.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the env var parsed as int, or def when unset or invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// getEnvFloat returns the env var parsed as float64, or def when unset or invalid.
func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// newQdrantStore builds the recipe vector store from QDRANT_* env vars.
// Construction is offline — connectivity problems surface on first use.
func newQdrantStore() (*rag.QdrantStore, error) {
	embBackend := getEnvOrDefault("EMBEDDING_PROVIDER", "openai")
	vectorSize := uint64(embedder.DefaultDimensions(embBackend)) //nolint:gosec // dimensions are bounded

	store, err := rag.NewQdrantStore(&rag.QdrantConfig{
		Host:       getEnvOrDefault("QDRANT_HOST", "localhost"),
		Port:       getEnvInt("QDRANT_PORT", 6334),
		Collection: getEnvOrDefault("QDRANT_COLLECTION", defaultCollection),
		VectorSize: vectorSize,
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant store init: %w", err)
	}
	return store, nil
}

// newRetrieverSource wraps the store in a lazily-built retriever. The build
// runs on the first question and is retried on later questions if it fails,
// so a cold vector store never takes the process down.
func newRetrieverSource(store *rag.QdrantStore, log *slog.Logger) *rag.Lazy {
	return rag.NewLazy(func(ctx context.Context) (rag.Retriever, error) {
		if err := embedder.Validate(log); err != nil {
			return nil, err
		}
		emb, err := embedder.NewFromEnv()
		if err != nil {
			return nil, err
		}
		return rag.NewRetriever(emb, store, pipeline.DefaultTopK)
	})
}

// buildPipeline constructs the full recommendation pipeline: tiered chat
// models from MODEL_* env vars plus the lazy retriever source.
func buildPipeline(ctx context.Context, source pipeline.RetrieverSource) (*pipeline.Pipeline, error) {
	models, err := provider.NewModelsFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("model provider init: %w", err)
	}

	p, err := pipeline.New(&pipeline.Config{
		Retriever:        source,
		Fast:             models.Fast,
		Advanced:         models.Advanced,
		TopK:             getEnvInt("PIPELINE_TOP_K", 0),
		MinContentLen:    getEnvInt("PIPELINE_MIN_CONTENT_LEN", 0),
		MaxContextTokens: getEnvInt("PIPELINE_MAX_CONTEXT_TOKENS", 0),
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline init: %w", err)
	}
	return p, nil
}
