package rag

import (
	"context"
	"fmt"
	"sync"
)

// BuildFunc constructs a Retriever. It is invoked at most once concurrently
// and re-invoked on later calls only if every previous attempt failed.
type BuildFunc func(ctx context.Context) (Retriever, error)

// Lazy wraps a Retriever whose construction may fail at process start
// (vector store unreachable, credential missing). The first successful build
// is cached for the process lifetime; failed builds are retried on the next
// Get call. The mutex guarantees concurrent first-use never double-loads.
type Lazy struct {
	// mu serialises build attempts.
	mu sync.Mutex

	// build constructs the underlying retriever.
	build BuildFunc

	// retriever is the cached handle once a build has succeeded.
	retriever Retriever
}

// NewLazy constructs a Lazy from the given build function.
func NewLazy(build BuildFunc) *Lazy {
	return &Lazy{build: build}
}

// Get returns the cached Retriever, building it first if no previous attempt
// has succeeded. Safe for concurrent use.
func (l *Lazy) Get(ctx context.Context) (Retriever, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.retriever != nil {
		return l.retriever, nil
	}

	r, err := l.build(ctx)
	if err != nil {
		return nil, fmt.Errorf("rag: retriever init failed: %w", err)
	}
	l.retriever = r
	return r, nil
}
