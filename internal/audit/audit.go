// Package audit emits one structured log line per CLI command invocation:
// which command ran, which config file it resolved, and the operational
// environment it saw. Secret-valued variables are reported as present or
// absent only — their values never reach the log stream.
package audit

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// auditedVar is one environment variable included in the audit line.
type auditedVar struct {
	key    string
	secret bool
}

// auditedVars is the single source of truth for what gets audited and what
// counts as a secret. Order here is the order in the log line.
var auditedVars = []auditedVar{
	{key: "MODEL_PROVIDER"},
	{key: "MODEL_FAST"},
	{key: "MODEL_ADVANCED"},
	{key: "OPENAI_API_KEY", secret: true},
	{key: "AZURE_OPENAI_API_KEY", secret: true},
	{key: "AZURE_OPENAI_ENDPOINT"},
	{key: "GOOGLE_API_KEY", secret: true},
	{key: "OLLAMA_HOST"},
	{key: "ARK_API_KEY", secret: true},
	{key: "EMBEDDING_PROVIDER"},
	{key: "EMBEDDING_MODEL"},
	{key: "EMBEDDING_API_KEY", secret: true},
	{key: "QDRANT_HOST"},
	{key: "QDRANT_PORT"},
	{key: "QDRANT_COLLECTION"},
	{key: "QDRANT_API_KEY", secret: true},
	{key: "SOUSCHEF_API_KEY", secret: true},
	{key: "SOUSCHEF_HISTORY_DB"},
	{key: "LOG_LEVEL"},
	{key: "LOG_FORMAT"},
	{key: "LANGFUSE_PUBLIC_KEY", secret: true},
	{key: "LANGFUSE_SECRET_KEY", secret: true},
}

// secretKeys is derived from auditedVars so the two can never disagree.
var secretKeys = func() map[string]bool {
	m := make(map[string]bool, len(auditedVars))
	for _, v := range auditedVars {
		if v.secret {
			m[v.key] = true
		}
	}
	return m
}()

// LogCommandStart writes the audit line for a command invocation.
func LogCommandStart(log *slog.Logger, command string, configPath string) {
	attrs := make([]slog.Attr, 0, len(auditedVars)+2)
	attrs = append(attrs,
		slog.String("command", command),
		slog.String("config_file", describeConfigPath(configPath)),
	)
	for _, v := range auditedVars {
		attrs = append(attrs, slog.String(v.key, SanitiseKey(v.key, os.Getenv(v.key))))
	}

	log.LogAttrs(context.TODO(), slog.LevelInfo, "audit: command start", attrs...)
}

// SanitiseKey renders an env var value for logging: secret keys become
// "set"/"unset", non-secret keys keep their value with "unset" standing in
// for empty.
func SanitiseKey(key, value string) string {
	switch {
	case secretKeys[key] && value != "":
		return "set"
	case value == "":
		return "unset"
	default:
		return value
	}
}

// describeConfigPath renders the config file source for the audit line.
// The home directory prefix is shortened to "~" to keep usernames out of
// shared log streams.
func describeConfigPath(p string) string {
	if p == "" {
		return "none"
	}
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(p, home) {
		return "~" + p[len(home):]
	}
	return p
}
