// Package tracing wires optional Langfuse observability into the eino
// callback chain, so every selector/formatter/translator model call is
// traced with its prompts and latencies when keys are configured.
package tracing

import (
	"os"

	"github.com/cloudwego/eino-ext/callbacks/langfuse"
	"github.com/cloudwego/eino/callbacks"
)

// defaultHost is used when LANGFUSE_HOST is unset. Points at Langfuse Cloud;
// self-hosted deployments override it.
const defaultHost = "https://cloud.langfuse.com"

// Enabled reports whether both Langfuse keys are present in the environment.
func Enabled() bool {
	return os.Getenv("LANGFUSE_PUBLIC_KEY") != "" && os.Getenv("LANGFUSE_SECRET_KEY") != ""
}

// Setup builds the Langfuse callback handler from LANGFUSE_PUBLIC_KEY,
// LANGFUSE_SECRET_KEY, and optionally LANGFUSE_HOST. The returned flush
// function must run before process exit so buffered traces are delivered.
// When the keys are absent the third return value is false and tracing is
// silently skipped.
func Setup() (callbacks.Handler, func(), bool) {
	if !Enabled() {
		return nil, nil, false
	}

	host := os.Getenv("LANGFUSE_HOST")
	if host == "" {
		host = defaultHost
	}

	handler, flush := langfuse.NewLangfuseHandler(&langfuse.Config{
		Host:      host,
		PublicKey: os.Getenv("LANGFUSE_PUBLIC_KEY"),
		SecretKey: os.Getenv("LANGFUSE_SECRET_KEY"),
	})
	return handler, flush, true
}
