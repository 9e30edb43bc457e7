// Package provider constructs LLM chat model backends for the recommendation
// pipeline. The pipeline makes three model calls per request (select, format,
// translate); all three run against the same chat model, chosen per request
// from a fast/advanced tier pair built here at startup.
// Supported backends: OpenAI, Azure OpenAI, Google Gemini, Ollama, Ark.
package provider

import (
	"github.com/cloudwego/eino/components/model"
)

// Backend enumerates the supported LLM inference providers.
type Backend string

const (
	// BackendOpenAI selects the OpenAI API.
	BackendOpenAI Backend = "openai"
	// BackendAzure selects Azure OpenAI Service.
	BackendAzure Backend = "azure"
	// BackendGemini selects Google Gemini via AI Studio.
	BackendGemini Backend = "gemini"
	// BackendOllama selects a locally running Ollama instance.
	BackendOllama Backend = "ollama"
	// BackendArk selects the ByteDance/Volcano Engine Ark runtime.
	BackendArk Backend = "ark"
)

// Config holds all provider-level configuration resolved from environment
// variables or explicit caller-supplied values.
type Config struct {
	// Backend identifies which inference provider to use.
	Backend Backend

	// Model is the model name or deployment ID to use (e.g. "gpt-4o-mini").
	Model string

	// BaseURL overrides the default API endpoint (required for Ollama and Azure).
	BaseURL string

	// APIKey is the authentication credential for the selected provider.
	APIKey string

	// AzureAPIVersion is the Azure OpenAI REST API version (Azure only).
	AzureAPIVersion string

	// MaxTokens caps the number of tokens the model may generate per response.
	MaxTokens int
}

// Models is the fast/advanced chat model pair built once at startup.
// Both fields are ready-to-use and safe for concurrent Generate calls.
type Models struct {
	// Fast is the cheaper, lower-latency model (default tier).
	Fast model.BaseChatModel

	// Advanced is the higher-quality model for callers that request it.
	Advanced model.BaseChatModel
}
