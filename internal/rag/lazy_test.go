package rag

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type nopRetriever struct{}

func (nopRetriever) Retrieve(context.Context, string, int) ([]Document, error) {
	return nil, nil
}

func Test_Lazy_CachesFirstSuccess(t *testing.T) {
	t.Parallel()

	builds := 0
	l := NewLazy(func(context.Context) (Retriever, error) {
		builds++
		return nopRetriever{}, nil
	})

	for i := 0; i < 3; i++ {
		if _, err := l.Get(context.Background()); err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
	}
	if builds != 1 {
		t.Errorf("want 1 build, got %d", builds)
	}
}

func Test_Lazy_RetriesAfterFailure(t *testing.T) {
	t.Parallel()

	builds := 0
	l := NewLazy(func(context.Context) (Retriever, error) {
		builds++
		if builds < 3 {
			return nil, errors.New("store unreachable")
		}
		return nopRetriever{}, nil
	})

	for i := 0; i < 2; i++ {
		if _, err := l.Get(context.Background()); err == nil {
			t.Fatalf("get %d: want error while builds fail", i)
		}
	}

	r, err := l.Get(context.Background())
	if err != nil {
		t.Fatalf("get after recovery: %v", err)
	}
	if r == nil {
		t.Fatal("want cached retriever")
	}
	if builds != 3 {
		t.Errorf("want 3 builds, got %d", builds)
	}

	// Subsequent calls reuse the cached handle.
	if _, err := l.Get(context.Background()); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if builds != 3 {
		t.Errorf("cached get must not rebuild, got %d builds", builds)
	}
}

func Test_Lazy_ConcurrentFirstUse(t *testing.T) {
	t.Parallel()

	builds := 0
	l := NewLazy(func(context.Context) (Retriever, error) {
		builds++
		return nopRetriever{}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Get(context.Background()); err != nil {
				t.Errorf("concurrent get: %v", err)
			}
		}()
	}
	wg.Wait()

	if builds != 1 {
		t.Errorf("concurrent first use must build once, got %d", builds)
	}
}
