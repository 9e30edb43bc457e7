package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/souschef-ai/souschef-go/internal/rag"
)

// validSelectionJSON is a well-formed selector verdict with a match.
const validSelectionJSON = `{
  "found_match": true,
  "best_recipe": {
    "name": "Vegan Chili",
    "url": "https://recipes.example/vegan-chili",
    "category": "American",
    "ingredients": ["2 cups kidney beans", "1 onion", "chili powder"],
    "steps": ["Dice the onion.", "Simmer everything for 30 minutes."]
  },
  "selection_reason": "Only candidate that is both vegan and American."
}`

func Test_SelectorParse_ValidMatch(t *testing.T) {
	t.Parallel()

	outcome, err := selectorStage{}.parse(validSelectionJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !outcome.FoundMatch {
		t.Fatal("want found_match=true")
	}
	if outcome.BestRecipe.Name != "Vegan Chili" {
		t.Errorf("name: got %q", outcome.BestRecipe.Name)
	}
	if len(outcome.BestRecipe.Ingredients) != 3 || len(outcome.BestRecipe.Steps) != 2 {
		t.Errorf("want 3 ingredients / 2 steps, got %d/%d",
			len(outcome.BestRecipe.Ingredients), len(outcome.BestRecipe.Steps))
	}
}

func Test_SelectorParse_HonestRefusal(t *testing.T) {
	t.Parallel()

	raw := `{"found_match": false, "best_recipe": null, "selection_reason": "all candidates contain meat"}`
	outcome, err := selectorStage{}.parse(raw)
	if err != nil {
		t.Fatalf("refusal must parse cleanly: %v", err)
	}
	if outcome.FoundMatch {
		t.Error("want found_match=false")
	}
	if outcome.BestRecipe != nil {
		t.Error("want best_recipe=nil")
	}
	if outcome.SelectionReason != "all candidates contain meat" {
		t.Errorf("reason: got %q", outcome.SelectionReason)
	}
}

func Test_SelectorParse_StripsCodeFence(t *testing.T) {
	t.Parallel()

	fenced := "```json\n" + validSelectionJSON + "\n```"
	outcome, err := selectorStage{}.parse(fenced)
	if err != nil {
		t.Fatalf("fenced JSON must parse: %v", err)
	}
	if !outcome.FoundMatch {
		t.Error("want found_match=true")
	}
}

func Test_SelectorParse_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "I think the best recipe is Vegan Chili!"},
		{"truncated", `{"found_match": true, "best_recipe": {"name": "x"`},
		{"match without recipe", `{"found_match": true, "best_recipe": null, "selection_reason": "r"}`},
		{"empty name", `{"found_match": true, "best_recipe": {"name": " ", "ingredients": ["a"], "steps": ["b"]}}`},
		{"no ingredients", `{"found_match": true, "best_recipe": {"name": "x", "ingredients": [], "steps": ["b"]}}`},
		{"no steps", `{"found_match": true, "best_recipe": {"name": "x", "ingredients": ["a"], "steps": []}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := selectorStage{}.parse(tc.raw)
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("want ErrParse, got %v", err)
			}
		})
	}
}

func Test_SelectorBuildPrompt(t *testing.T) {
	t.Parallel()

	docs := []rag.Document{
		{Content: "Recipe: Bibimbap ...", URL: "https://r.example/1", Category: "Korean"},
		{Content: "Recipe: Chili ...", URL: "https://r.example/2", Category: "American"},
	}

	prompt := selectorStage{}.buildPrompt(docs, "vegan american dish")

	for _, want := range []string{
		"You are given 2 candidate recipes",
		"[Candidate 1]",
		"[Candidate 2]",
		"URL: https://r.example/2",
		"Category: American",
		"[User Question]: vegan american dish",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func Test_StripCodeFence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
