package pipeline

import (
	"strings"

	"github.com/souschef-ai/souschef-go/internal/rag"
)

// DefaultMinContentLen is the minimum trimmed content length (in bytes) a
// retrieved document must have to survive filtering. Near-empty documents
// degrade selection quality and waste selector tokens.
const DefaultMinContentLen = 30

// FilterCandidates returns the documents whose trimmed content is at least
// minLen bytes, preserving the input order. Pure function, no side effects.
// The orchestrator short-circuits with a "no information" answer when the
// result is empty — the selector is never asked to judge noise.
func FilterCandidates(docs []rag.Document, minLen int) []rag.Document {
	if minLen <= 0 {
		minLen = DefaultMinContentLen
	}

	kept := make([]rag.Document, 0, len(docs))
	for _, doc := range docs {
		if len(strings.TrimSpace(doc.Content)) >= minLen {
			kept = append(kept, doc)
		}
	}
	return kept
}
