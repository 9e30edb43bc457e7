package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/souschef-ai/souschef-go/internal/embedder"
	"github.com/souschef-ai/souschef-go/internal/ingestion"
	"github.com/souschef-ai/souschef-go/internal/logging"
)

// NewIngestCmd constructs the `souschef ingest` command, which embeds a
// recipe JSON file into the Qdrant vector store.
func NewIngestCmd() *cobra.Command {
	var file string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a recipe JSON file into the vector store",
		Long: `Embed and index recipes into the Qdrant vector store.

The input file must be a JSON array of recipe objects with name, url,
category, ingredients, and steps fields. Recipe IDs are derived from the
URL and name, so re-running ingest on the same file updates in place.

Required environment variables:
  QDRANT_HOST          Qdrant server hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION    Collection name (default: souschef-recipes)
  QDRANT_API_KEY       Optional API key for authenticated clusters
  EMBEDDING_PROVIDER   Embedding backend: openai, ollama (default: openai)
  EMBEDDING_*          Provider-specific overrides (EMBEDDING_MODEL,
                       EMBEDDING_ENDPOINT, EMBEDDING_API_KEY, EMBEDDING_DIMENSIONS)

Examples:
  souschef ingest --file recipes.json
  souschef ingest --file recipes.json --batch-size 32`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()

			if file == "" {
				return fmt.Errorf("ingest: --file is required")
			}

			recipes, err := ingestion.LoadRecipes(file)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			log.Info("recipes loaded", slog.String("file", file), slog.Int("count", len(recipes)))

			if err := embedder.Validate(log); err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			emb, err := embedder.NewFromEnv()
			if err != nil {
				return fmt.Errorf("ingest: failed to initialise embedder: %w", err)
			}

			store, err := newQdrantStore()
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer store.Close()

			if err := store.EnsureCollection(ctx); err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			p, err := ingestion.NewPipeline(emb, store, &ingestion.Config{BatchSize: batchSize})
			if err != nil {
				return fmt.Errorf("ingest: failed to create pipeline: %w", err)
			}

			if err := p.Ingest(ctx, recipes, func(msg string) {
				log.Info(msg)
			}); err != nil {
				return fmt.Errorf("ingest: pipeline failed: %w", err)
			}

			log.Info("ingestion complete", slog.Int("recipes", len(recipes)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the recipe JSON file")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "Documents per embedding API call (default 64)")

	return cmd
}
