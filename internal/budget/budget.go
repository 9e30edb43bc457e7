// Package budget provides token budget estimation for the selector prompt.
// Because the service supports multiple LLM backends with different
// tokenizers, this package uses a conservative character-based heuristic:
// 1 token ≈ 4 characters. This deliberately under-estimates token counts to
// leave headroom for model-specific overhead.
package budget

import (
	"github.com/souschef-ai/souschef-go/internal/rag"
)

const (
	// charsPerToken is the conservative character-to-token ratio used for
	// estimation. 4 chars/token is standard for English prose; Korean text
	// runs denser, which the conservative default absorbs.
	charsPerToken = 4

	// DefaultMaxContextTokens is the default input context budget in tokens.
	// Conservative enough to fit ten recipe candidates plus the selector
	// prompt within 8k-context models while leaving room for the output.
	DefaultMaxContextTokens = 6000

	// perCandidateOverhead is the estimated token cost of the candidate
	// framing added around each document (header, URL line, separator).
	perCandidateOverhead = 16
)

// Estimate returns a rough token count for s using the character heuristic.
func Estimate(s string) int {
	n := len(s) / charsPerToken
	if n == 0 && len(s) > 0 {
		return 1
	}
	return n
}

// EstimateCandidate returns the estimated token cost of one candidate
// document as rendered into the selector prompt.
func EstimateCandidate(doc rag.Document) int {
	return perCandidateOverhead + Estimate(doc.Content) + Estimate(doc.URL) + Estimate(doc.Category)
}

// TrimCandidates drops documents from the tail of docs until the estimated
// total token count of base + candidates fits within maxTokens. Candidates
// arrive ordered by descending similarity, so the tail holds the weakest
// matches. At least one candidate is always retained — the selector must see
// something to judge, and an oversized single candidate is the model's
// problem, not ours.
//
// base is the estimated token cost of the fixed prompt text around the
// candidates. Returns the (possibly shortened) prefix of docs.
func TrimCandidates(docs []rag.Document, base, maxTokens int) []rag.Document {
	if len(docs) == 0 {
		return docs
	}

	total := base
	for i, doc := range docs {
		total += EstimateCandidate(doc)
		if total > maxTokens && i > 0 {
			return docs[:i]
		}
	}
	return docs
}
