package store

import (
	"context"
	"fmt"
	"testing"
)

// openTestStore opens an in-memory SQLiteStore for use in tests.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func Test_Store_AppendAndRecent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Append(ctx, Entry{
		Question: "vegan pasta?",
		Answer:   "🍳 Vegan Pasta",
		Language: "en",
		Matched:  true,
		Outcome:  "matched",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = s.Append(ctx, Entry{
		Question: "김치찌개 레시피",
		Answer:   "😔 no match",
		Language: "ko",
		Matched:  false,
		Outcome:  "no_match",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Question != "김치찌개 레시피" || entries[0].Language != "ko" {
		t.Errorf("entry[0]: unexpected %+v", entries[0])
	}
	if entries[0].Matched {
		t.Error("entry[0]: want matched=false")
	}
	if entries[1].Question != "vegan pasta?" || !entries[1].Matched {
		t.Errorf("entry[1]: unexpected %+v", entries[1])
	}
}

func Test_Store_RecentLimitRespected(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	for i := range 6 {
		e := Entry{
			Question: fmt.Sprintf("q%d", i),
			Answer:   "a",
			Language: "en",
			Matched:  true,
			Outcome:  "matched",
		}
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := s.Recent(ctx, 4)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("want 4 entries, got %d", len(entries))
	}
}

func Test_Store_RecentEmpty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	entries, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("want no entries, got %d", len(entries))
	}
}
