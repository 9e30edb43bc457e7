// Package ingestion implements the recipe ingestion pipeline.
// It loads recipe records from a JSON file, renders each recipe into a
// retrieval document, embeds the documents in batches, and upserts the
// results into the vector store. This pipeline is invoked by the
// `souschef ingest` CLI command.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/souschef-ai/souschef-go/internal/rag"
)

// Recipe is a single recipe record as found in the source JSON file.
type Recipe struct {
	// Name is the recipe title.
	Name string `json:"name"`

	// URL is the source page for the recipe.
	URL string `json:"url"`

	// Category is the cuisine or dish category (e.g. "Italian", "Dessert").
	Category string `json:"category"`

	// Ingredients is the ordered ingredient list.
	Ingredients []string `json:"ingredients"`

	// Steps is the ordered cooking instruction list.
	Steps []string `json:"steps"`
}

// Config holds the configuration for the ingestion pipeline.
type Config struct {
	// BatchSize is the number of documents embedded per API call.
	// Defaults to 64 if zero.
	BatchSize int
}

// Pipeline orchestrates the load → render → embed → upsert flow for a
// recipe JSON file.
type Pipeline struct {
	// embedder converts recipe documents into dense vector embeddings.
	embedder rag.Embedder

	// store persists the embedded documents.
	store rag.VectorStore

	// cfg holds the resolved pipeline configuration.
	cfg *Config
}

// NewPipeline constructs a Pipeline from the provided dependencies and config.
func NewPipeline(embedder rag.Embedder, store rag.VectorStore, cfg *Config) (*Pipeline, error) {
	if embedder == nil {
		return nil, fmt.Errorf("ingestion: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("ingestion: store must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}

	return &Pipeline{
		embedder: embedder,
		store:    store,
		cfg:      cfg,
	}, nil
}

// LoadRecipes reads and parses a recipe JSON file. The file must contain a
// top-level JSON array of recipe objects.
func LoadRecipes(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingestion: read %s: %w", path, err)
	}

	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("ingestion: parse %s: %w", path, err)
	}
	return recipes, nil
}

// Ingest renders, embeds, and stores all provided recipes in batches.
// Recipes with an empty name are skipped. Progress is reported via the
// optional progress callback.
func (p *Pipeline) Ingest(ctx context.Context, recipes []Recipe, progress func(msg string)) error {
	if progress == nil {
		progress = func(string) {}
	}

	docs := make([]rag.Document, 0, len(recipes))
	for _, r := range recipes {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		docs = append(docs, rag.Document{
			ID:       recipeID(r),
			Content:  RenderRecipe(r),
			URL:      r.URL,
			Category: r.Category,
		})
	}
	if len(docs) == 0 {
		return fmt.Errorf("ingestion: no usable recipes in input")
	}

	progress(fmt.Sprintf("rendering %d recipes", len(docs)))

	for start := 0; start < len(docs); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Content
		}

		embeddings, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("ingestion: embedding batch %d-%d failed: %w", start, end, err)
		}

		if err := p.store.Upsert(ctx, batch, embeddings); err != nil {
			return fmt.Errorf("ingestion: upsert batch %d-%d failed: %w", start, end, err)
		}

		progress(fmt.Sprintf("ingested %d/%d recipes", end, len(docs)))
	}

	return nil
}

// RenderRecipe produces the retrieval document text for a recipe. The layout
// mirrors what the candidate selector sees at query time, so ingestion and
// retrieval stay in sync.
func RenderRecipe(r Recipe) string {
	var b strings.Builder

	b.WriteString("Recipe: ")
	b.WriteString(r.Name)
	b.WriteString("\n")
	if r.Category != "" {
		b.WriteString("Category: ")
		b.WriteString(r.Category)
		b.WriteString("\n")
	}

	b.WriteString("Ingredients:\n")
	for _, ing := range r.Ingredients {
		b.WriteString("- ")
		b.WriteString(ing)
		b.WriteString("\n")
	}

	b.WriteString("Steps:\n")
	for i, step := range r.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	return strings.TrimRight(b.String(), "\n")
}

// recipeID generates a deterministic UUID-shaped ID for a recipe based on its
// URL and name, so re-ingesting the same file updates rather than duplicates.
// Qdrant point IDs must be UUIDs, hence the hyphenated formatting.
func recipeID(r Recipe) string {
	h := sha256.Sum256([]byte(r.URL + "#" + r.Name))
	return fmt.Sprintf("%x-%x-%x-%x-%x", h[0:4], h[4:6], h[6:8], h[8:10], h[10:16])
}
