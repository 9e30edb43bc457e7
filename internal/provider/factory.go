package provider

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/cloudwego/eino/components/model"
)

// tierDefaults maps each backend to its default model names for the fast and
// advanced tiers. Overridable via MODEL_FAST / MODEL_ADVANCED.
var tierDefaults = map[Backend]struct{ fast, advanced string }{
	BackendOpenAI: {"gpt-4o-mini", "gpt-4o"},
	BackendAzure:  {"gpt-4o-mini", "gpt-4o"},
	BackendGemini: {"gemini-1.5-flash", "gemini-1.5-pro"},
	BackendOllama: {"llama3", "llama3"},
	BackendArk:    {"doubao-lite-32k", "doubao-pro-32k"},
}

// NewModelsFromEnv constructs the fast/advanced chat model pair by reading
// provider configuration from environment variables. MODEL_PROVIDER selects
// the backend; each provider uses its own native credential env vars.
//
// Environment variables:
//
//	MODEL_PROVIDER  = openai | azure | gemini | ollama | ark (default: openai)
//	MODEL_FAST      overrides the fast-tier model name
//	MODEL_ADVANCED  overrides the advanced-tier model name
//
//	OpenAI: OPENAI_API_KEY
//	Azure:  AZURE_OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_VERSION
//	        (deployment names come from MODEL_FAST/MODEL_ADVANCED)
//	Gemini: GOOGLE_API_KEY
//	Ollama: OLLAMA_HOST (default: http://localhost:11434)
//	Ark:    ARK_API_KEY, ARK_BASE_URL
//
//	Shared: MODEL_MAX_TOKENS (default: 4096)
func NewModelsFromEnv(ctx context.Context) (*Models, error) {
	backend := Backend(getEnvOrDefault("MODEL_PROVIDER", string(BackendOpenAI)))

	defaults, ok := tierDefaults[backend]
	if !ok {
		return nil, fmt.Errorf("provider: unknown backend %q — valid values: openai, azure, gemini, ollama, ark", backend)
	}

	base := Config{
		Backend:         backend,
		BaseURL:         baseURLFromEnv(backend),
		APIKey:          apiKeyFromEnv(backend),
		AzureAPIVersion: getEnvOrDefault("AZURE_OPENAI_API_VERSION", "2024-02-01"),
		MaxTokens:       getEnvInt("MODEL_MAX_TOKENS", 4096),
	}

	fastCfg := base
	fastCfg.Model = getEnvOrDefault("MODEL_FAST", defaults.fast)
	fast, err := New(ctx, &fastCfg)
	if err != nil {
		return nil, fmt.Errorf("provider: fast tier: %w", err)
	}

	advCfg := base
	advCfg.Model = getEnvOrDefault("MODEL_ADVANCED", defaults.advanced)
	advanced, err := New(ctx, &advCfg)
	if err != nil {
		return nil, fmt.Errorf("provider: advanced tier: %w", err)
	}

	return &Models{Fast: fast, Advanced: advanced}, nil
}

// New constructs a single chat model from an explicit Config, delegating to
// the appropriate backend constructor. It validates the config first so
// callers get a clear error at startup rather than on the first request.
func New(ctx context.Context, cfg *Config) (model.BaseChatModel, error) {
	switch cfg.Backend {
	case BackendOpenAI:
		return newOpenAI(ctx, cfg)
	case BackendAzure:
		return newAzure(ctx, cfg)
	case BackendGemini:
		return newGemini(ctx, cfg)
	case BackendOllama:
		return newOllama(ctx, cfg)
	case BackendArk:
		return newArk(ctx, cfg)
	default:
		return nil, fmt.Errorf("provider: unknown backend %q — valid values: openai, azure, gemini, ollama, ark", cfg.Backend)
	}
}

// apiKeyFromEnv resolves the credential env var for the given backend.
func apiKeyFromEnv(backend Backend) string {
	switch backend {
	case BackendOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case BackendAzure:
		return os.Getenv("AZURE_OPENAI_API_KEY")
	case BackendGemini:
		return os.Getenv("GOOGLE_API_KEY")
	case BackendArk:
		return os.Getenv("ARK_API_KEY")
	default:
		return ""
	}
}

// baseURLFromEnv resolves the endpoint env var for the given backend.
func baseURLFromEnv(backend Backend) string {
	switch backend {
	case BackendAzure:
		return os.Getenv("AZURE_OPENAI_ENDPOINT")
	case BackendOllama:
		return getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434")
	case BackendArk:
		return os.Getenv("ARK_BASE_URL")
	default:
		return ""
	}
}

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
