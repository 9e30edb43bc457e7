package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/souschef-ai/souschef-go/internal/rag"
)

// fakeEmbedder records Embed calls and returns fixed-size vectors.
type fakeEmbedder struct {
	calls   int
	batches [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.batches = append(f.batches, texts)
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// fakeStore records upserted documents.
type fakeStore struct {
	docs []rag.Document
}

func (f *fakeStore) Upsert(_ context.Context, docs []rag.Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		panic("docs/embeddings length mismatch")
	}
	f.docs = append(f.docs, docs...)
	return nil
}

func (f *fakeStore) Search(context.Context, []float32, int) ([]rag.Document, error) {
	return nil, nil
}

func (f *fakeStore) Delete(context.Context, []string) error { return nil }
func (f *fakeStore) Close() error                           { return nil }

func sampleRecipe(name string) Recipe {
	return Recipe{
		Name:        name,
		URL:         "https://recipes.example/" + name,
		Category:    "Italian",
		Ingredients: []string{"pasta", "tomato"},
		Steps:       []string{"boil pasta", "add sauce"},
	}
}

func Test_Ingest_BatchesAndUpserts(t *testing.T) {
	t.Parallel()

	emb := &fakeEmbedder{}
	st := &fakeStore{}
	p, err := NewPipeline(emb, st, &Config{BatchSize: 2})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	recipes := []Recipe{
		sampleRecipe("carbonara"),
		sampleRecipe("arrabbiata"),
		sampleRecipe("pesto"),
	}
	if err := p.Ingest(context.Background(), recipes, nil); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if emb.calls != 2 {
		t.Errorf("want 2 embed batches, got %d", emb.calls)
	}
	if len(st.docs) != 3 {
		t.Fatalf("want 3 upserted docs, got %d", len(st.docs))
	}
	if st.docs[0].Category != "Italian" {
		t.Errorf("doc category: want Italian, got %q", st.docs[0].Category)
	}
	if st.docs[0].ID == "" || st.docs[0].ID == st.docs[1].ID {
		t.Error("doc IDs must be non-empty and distinct")
	}
}

func Test_Ingest_SkipsNamelessRecipes(t *testing.T) {
	t.Parallel()

	emb := &fakeEmbedder{}
	st := &fakeStore{}
	p, err := NewPipeline(emb, st, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	recipes := []Recipe{sampleRecipe("ramen"), {Name: "   "}}
	if err := p.Ingest(context.Background(), recipes, nil); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(st.docs) != 1 {
		t.Errorf("want 1 upserted doc, got %d", len(st.docs))
	}
}

func Test_Ingest_EmptyInputErrors(t *testing.T) {
	t.Parallel()

	p, err := NewPipeline(&fakeEmbedder{}, &fakeStore{}, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	if err := p.Ingest(context.Background(), nil, nil); err == nil {
		t.Error("want error for empty input, got nil")
	}
}

func Test_RenderRecipe_Layout(t *testing.T) {
	t.Parallel()

	text := RenderRecipe(sampleRecipe("carbonara"))

	for _, want := range []string{
		"Recipe: carbonara",
		"Category: Italian",
		"- pasta",
		"1. boil pasta",
		"2. add sauce",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, text)
		}
	}
}

func Test_RecipeID_Deterministic(t *testing.T) {
	t.Parallel()

	a := recipeID(sampleRecipe("carbonara"))
	b := recipeID(sampleRecipe("carbonara"))
	c := recipeID(sampleRecipe("pesto"))
	if a != b {
		t.Error("same recipe must produce same ID")
	}
	if a == c {
		t.Error("different recipes must produce different IDs")
	}
	// Qdrant requires UUID-shaped point IDs.
	if len(a) != 36 || strings.Count(a, "-") != 4 {
		t.Errorf("ID must be UUID-shaped, got %q", a)
	}
}
