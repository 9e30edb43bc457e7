// Package rag defines the interfaces for the recipe retrieval layer:
// vector storage, document retrieval, and embedding. Concrete implementations
// (Qdrant, etc.) satisfy these interfaces so the recommendation pipeline never
// depends on a specific backend.
package rag

import (
	"context"
)

// Document is an immutable retrieval unit: one indexed recipe.
// It is produced at index-build time and read-only at query time.
type Document struct {
	// ID is the unique identifier for this document.
	ID string

	// Content is the raw recipe text that was embedded.
	Content string

	// URL is the source page of the recipe. Empty if the index predates
	// the url payload field.
	URL string

	// Category is the cuisine/nationality label (e.g. "Korean", "American").
	Category string

	// Score is the similarity score assigned during retrieval (0.0–1.0).
	// Zero value means the score was not computed.
	Score float32
}

// VectorStore is the interface for persisting and searching recipe embeddings.
// Implementations must be safe to call from multiple goroutines.
type VectorStore interface {
	// Upsert stores or updates a batch of documents with their pre-computed
	// embeddings. embeddings[i] is the vector for docs[i].
	Upsert(ctx context.Context, docs []Document, embeddings [][]float32) error

	// Search performs a semantic similarity search and returns the top-k
	// most relevant documents for the given query embedding, ordered by
	// descending similarity.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]Document, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the store.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever is the high-level interface the pipeline uses to fetch candidate
// recipes for a question. It combines embedding and vector search.
// Implementations must be safe to call from multiple goroutines.
type Retriever interface {
	// Retrieve returns the top-k most relevant documents for the given query.
	Retrieve(ctx context.Context, query string, topK int) ([]Document, error)
}
