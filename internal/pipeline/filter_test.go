package pipeline

import (
	"strings"
	"testing"

	"github.com/souschef-ai/souschef-go/internal/rag"
)

func Test_FilterCandidates_DropsShortContent(t *testing.T) {
	t.Parallel()

	docs := []rag.Document{
		{ID: "a", Content: strings.Repeat("x", 30)},       // exactly at threshold
		{ID: "b", Content: strings.Repeat("x", 29)},       // one short
		{ID: "c", Content: ""},                            // empty
		{ID: "d", Content: strings.Repeat("pasta ", 100)}, // plenty
	}

	kept := FilterCandidates(docs, DefaultMinContentLen)

	if len(kept) != 2 {
		t.Fatalf("want 2 kept, got %d", len(kept))
	}
	if kept[0].ID != "a" || kept[1].ID != "d" {
		t.Errorf("want [a d] in retrieval order, got [%s %s]", kept[0].ID, kept[1].ID)
	}
}

func Test_FilterCandidates_TrimsBeforeMeasuring(t *testing.T) {
	t.Parallel()

	// 29 payload bytes padded with whitespace to well past the threshold.
	padded := "   " + strings.Repeat("x", 29) + "   \n\t"
	docs := []rag.Document{{ID: "padded", Content: padded}}

	if kept := FilterCandidates(docs, 30); len(kept) != 0 {
		t.Errorf("whitespace must not count toward the threshold, kept %d", len(kept))
	}
}

func Test_FilterCandidates_ZeroMinUsesDefault(t *testing.T) {
	t.Parallel()

	docs := []rag.Document{{Content: strings.Repeat("x", 29)}}
	if kept := FilterCandidates(docs, 0); len(kept) != 0 {
		t.Errorf("minLen 0 must fall back to the default threshold, kept %d", len(kept))
	}
}

func Test_FilterCandidates_Empty(t *testing.T) {
	t.Parallel()

	if kept := FilterCandidates(nil, 30); len(kept) != 0 {
		t.Errorf("want empty, got %d", len(kept))
	}
}
