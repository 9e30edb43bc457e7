package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying internal pipeline failures. The orchestrator
// matches on these with errors.Is to choose the user-facing message; nothing
// in this taxonomy ever escapes Recommend.
var (
	// ErrIndexUnavailable means the vector index never loaded or the
	// retrieval call against it failed.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrModelCall means a chat model invocation failed at the transport
	// level (network, auth, rate limit, timeout).
	ErrModelCall = errors.New("model call failed")

	// ErrParse means a model responded but its output did not conform to
	// the expected schema. Treated as equivalent in severity to ErrModelCall
	// — both mean the stage could not produce a trustworthy result. Never
	// retried.
	ErrParse = errors.New("model response parse failed")
)

// modelCallErr wraps a transport failure from the named stage so it matches
// ErrModelCall while keeping the cause in the message.
func modelCallErr(stage string, err error) error {
	return fmt.Errorf("pipeline: %s: %w: %v", stage, ErrModelCall, err)
}

// parseErr wraps a schema violation from the named stage so it matches
// ErrParse while keeping the cause in the message.
func parseErr(stage string, err error) error {
	return fmt.Errorf("pipeline: %s: %w: %v", stage, ErrParse, err)
}
