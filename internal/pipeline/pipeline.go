// Package pipeline implements the three-stage recipe recommendation flow:
// detect language → retrieve candidates → filter → select → format →
// translate. Each stage's prompt and parsing live in their own file so the
// model provider stays swappable; the orchestrator here only sequences them
// and maps every internal failure to a safe, localized answer.
//
// The pipeline holds no per-request state and performs no persistence —
// callers that want query history log the returned Response themselves.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/souschef-ai/souschef-go/internal/budget"
	"github.com/souschef-ai/souschef-go/internal/logging"
	"github.com/souschef-ai/souschef-go/internal/rag"
)

// DefaultTopK is the fixed number of candidates requested from the index.
// Ten gives the selector a real choice without flooding its context.
const DefaultTopK = 10

// ChatModel is the minimal surface each stage needs from an LLM backend.
// eino chat models satisfy it; tests inject a fake.
type ChatModel interface {
	// Generate produces a single completion for the given messages.
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// RetrieverSource supplies the retrieval handle on demand, allowing lazy
// initialization when the index was unavailable at process start.
// *rag.Lazy satisfies it.
type RetrieverSource interface {
	// Get returns the retriever, building it first if necessary.
	Get(ctx context.Context) (rag.Retriever, error)
}

// Tier selects which of the two configured chat models serves a request.
type Tier string

const (
	// TierFast selects the cheaper, lower-latency model.
	TierFast Tier = "fast"
	// TierAdvanced selects the higher-quality model.
	TierAdvanced Tier = "advanced"
)

// ParseTier validates a tier string from an external caller. The empty
// string defaults to TierFast.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case "":
		return TierFast, nil
	case TierFast:
		return TierFast, nil
	case TierAdvanced:
		return TierAdvanced, nil
	default:
		return "", fmt.Errorf("pipeline: unknown model tier %q — valid values: fast, advanced", s)
	}
}

// Outcome labels how a request terminated. Exposed so callers can partition
// metrics and history without re-parsing the answer text.
type Outcome string

const (
	// OutcomeMatched means a recipe card was rendered and translated.
	OutcomeMatched Outcome = "matched"
	// OutcomeNoMatch means the selector honestly declined every candidate.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeNoCandidates means retrieval produced nothing usable.
	OutcomeNoCandidates Outcome = "no_candidates"
	// OutcomeUnavailable means the vector index could not be loaded or queried.
	OutcomeUnavailable Outcome = "unavailable"
	// OutcomeError means a model call or parse failure was converted to an apology.
	OutcomeError Outcome = "error"
)

// Response is the pipeline's answer to one question. Answer is either a fully
// rendered recipe card or a localized refusal/apology — the shape never
// varies with the outcome.
type Response struct {
	// Question is the caller's question, returned unchanged.
	Question string
	// Answer is the final user-facing text in the detected language.
	Answer string
	// Language is the detected target language.
	Language Language
	// Matched reports whether a recipe card was produced.
	Matched bool
	// Outcome labels the terminal state for logging and metrics.
	Outcome Outcome
}

// Config holds the dependencies and tunables for constructing a Pipeline.
type Config struct {
	// Retriever supplies the vector index handle. Required.
	Retriever RetrieverSource

	// Fast is the chat model serving TierFast requests. Required.
	Fast ChatModel

	// Advanced is the chat model serving TierAdvanced requests.
	// Defaults to Fast if nil.
	Advanced ChatModel

	// TopK is the number of candidates requested from the index.
	// Defaults to DefaultTopK if zero.
	TopK int

	// MinContentLen is the candidate filter threshold in bytes.
	// Defaults to DefaultMinContentLen if zero.
	MinContentLen int

	// MaxContextTokens is the estimated token budget for the selector prompt.
	// Candidates beyond the budget are dropped lowest-similarity-first.
	// Defaults to budget.DefaultMaxContextTokens if zero.
	MaxContextTokens int
}

// Pipeline sequences the recommendation stages. It is immutable after
// construction and safe for concurrent use: the only shared state is the
// read-only index handle behind the RetrieverSource.
type Pipeline struct {
	// retriever supplies the vector index handle.
	retriever RetrieverSource

	// fast and advanced are the tiered chat models.
	fast     ChatModel
	advanced ChatModel

	// topK is the retrieval depth.
	topK int

	// minContentLen is the candidate filter threshold.
	minContentLen int

	// maxContextTokens is the selector prompt budget.
	maxContextTokens int
}

// New constructs a Pipeline from the provided Config.
func New(cfg *Config) (*Pipeline, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("pipeline: Retriever must not be nil")
	}
	if cfg.Fast == nil {
		return nil, fmt.Errorf("pipeline: Fast model must not be nil")
	}

	advanced := cfg.Advanced
	if advanced == nil {
		advanced = cfg.Fast
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	minLen := cfg.MinContentLen
	if minLen <= 0 {
		minLen = DefaultMinContentLen
	}

	maxCtx := cfg.MaxContextTokens
	if maxCtx <= 0 {
		maxCtx = budget.DefaultMaxContextTokens
	}

	return &Pipeline{
		retriever:        cfg.Retriever,
		fast:             cfg.Fast,
		advanced:         advanced,
		topK:             topK,
		minContentLen:    minLen,
		maxContextTokens: maxCtx,
	}, nil
}

// modelFor returns the chat model serving the given tier.
func (p *Pipeline) modelFor(tier Tier) ChatModel {
	if tier == TierAdvanced {
		return p.advanced
	}
	return p.fast
}

// Recommend answers a free-text recipe question. It never returns an error:
// every internal failure is converted to a localized, user-safe answer, so
// the caller always receives a well-formed Response. Timeouts are the
// caller's responsibility via ctx — a deadline exceeded mid-stage surfaces
// as a model-call failure and is apologized for like any other.
func (p *Pipeline) Recommend(ctx context.Context, question string, tier Tier) Response {
	log := logging.FromContext(ctx)
	lang := DetectLanguage(question)

	resp := Response{Question: question, Language: lang}

	retriever, err := p.retriever.Get(ctx)
	if err != nil {
		log.Warn("pipeline: retriever unavailable",
			slog.Any("error", fmt.Errorf("%w: %v", ErrIndexUnavailable, err)))
		resp.Answer = msgUnavailable(lang)
		resp.Outcome = OutcomeUnavailable
		return resp
	}

	docs, err := retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		log.Warn("pipeline: retrieval failed",
			slog.Any("error", fmt.Errorf("%w: %v", ErrIndexUnavailable, err)))
		resp.Answer = msgUnavailable(lang)
		resp.Outcome = OutcomeUnavailable
		return resp
	}

	candidates := FilterCandidates(docs, p.minContentLen)
	if len(candidates) == 0 {
		log.Info("pipeline: no usable candidates",
			slog.Int("retrieved", len(docs)),
			slog.String("language", string(lang)),
		)
		resp.Answer = msgNoInformation(lang)
		resp.Outcome = OutcomeNoCandidates
		return resp
	}

	// Drop the weakest candidates if the selector prompt would overflow the
	// context budget. Candidates are ordered by descending similarity.
	promptBase := budget.Estimate(selectorPrompt) + budget.Estimate(question)
	trimmed := budget.TrimCandidates(candidates, promptBase, p.maxContextTokens)
	if dropped := len(candidates) - len(trimmed); dropped > 0 {
		log.Warn("pipeline: dropped candidates to fit context budget",
			slog.Int("dropped", dropped),
			slog.Int("retained", len(trimmed)),
		)
	}

	model := p.modelFor(tier)

	outcome, err := selectorStage{model: model}.Run(ctx, trimmed, question)
	if err != nil {
		return p.fail(ctx, resp, "selector", err)
	}

	if !outcome.FoundMatch {
		log.Info("pipeline: selector declined all candidates",
			slog.Int("candidates", len(trimmed)),
		)
		resp.Answer = msgNoMatch(lang, outcome.SelectionReason)
		resp.Outcome = OutcomeNoMatch
		return resp
	}

	card, err := formatterStage{model: model}.Run(ctx, outcome, question)
	if err != nil {
		return p.fail(ctx, resp, "formatter", err)
	}

	answer, err := translatorStage{model: model}.Run(ctx, card, lang)
	if err != nil {
		return p.fail(ctx, resp, "translator", err)
	}

	resp.Answer = answer
	resp.Matched = true
	resp.Outcome = OutcomeMatched
	return resp
}

// fail converts a stage failure to a localized apology response.
func (p *Pipeline) fail(ctx context.Context, resp Response, stage string, err error) Response {
	logging.FromContext(ctx).Error("pipeline: stage failed",
		slog.String("stage", stage),
		slog.Any("error", err),
	)

	diag := "model call failed"
	if errors.Is(err, ErrParse) {
		diag = "invalid model response"
	}

	resp.Answer = msgFailure(resp.Language, diag)
	resp.Outcome = OutcomeError
	return resp
}
