package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/souschef-ai/souschef-go/internal/rag"
)

// RecipeDetail is the structured extraction of exactly one candidate
// document. Every field must be drawn verbatim from that document's data;
// the only permitted correction is an obviously wrong category label.
type RecipeDetail struct {
	// Name is the original recipe name.
	Name string `json:"name"`
	// URL is the recipe source URL.
	URL string `json:"url"`
	// Category is the cuisine/nationality label.
	Category string `json:"category"`
	// Ingredients lists the ingredients with quantities where the source
	// provides them. Order is preserved from the source.
	Ingredients []string `json:"ingredients"`
	// Steps lists the cooking steps in source order.
	Steps []string `json:"steps"`
}

// SelectionOutcome is the selector stage's verdict. FoundMatch=false is a
// valid terminal outcome, not an error: the model honestly declined rather
// than fabricating a recipe.
type SelectionOutcome struct {
	// FoundMatch reports whether any candidate genuinely matched the question.
	FoundMatch bool `json:"found_match"`
	// BestRecipe is the single chosen recipe. Nil when FoundMatch is false.
	BestRecipe *RecipeDetail `json:"best_recipe"`
	// SelectionReason explains why this recipe was chosen, or why none was.
	SelectionReason string `json:"selection_reason"`
}

// selectorPrompt instructs the model to pick exactly one candidate or refuse.
// The refusal path is the system's core hallucination defence: fabricating a
// recipe to satisfy the question is explicitly forbidden.
const selectorPrompt = `Role: Executive Head Chef & Food Critic.
Task: You are given %d candidate recipes. Select the ONE best recipe that perfectly matches the [User Question].

**Process**:
1. **Analyze**: Read the [User Question] (e.g., 'Vegan American dish') and the candidates carefully.
2. **Compare & Assess**: Evaluate if *any* candidate is a genuinely good match for the user's intent.
3. **Decision**:
    - If a **PERFECT** match is found, set 'found_match' to true and extract the details.
    - If **NO** candidate is even a *close* match (e.g., user asks for 'Vegan' but all candidates contain 'Meat', or asks for 'American' but all candidates are 'Korean'), set 'found_match' to **false**.

**Rules**:
- Ignore candidates that are irrelevant or have empty content.
- Extract 'name', 'url', 'ingredients', and 'steps' VERBATIM from the chosen candidate. Do not paraphrase.
- If the category label is obviously wrong in the candidate, correct it when extracting.
- **CRITICAL**: If 'found_match' is false, set 'best_recipe' to null and use 'selection_reason' to explain *why* no suitable recipe was chosen. DO NOT invent a recipe or select a non-matching one.

[User Question]: %s
[Candidate Documents]:
%s

Respond with ONLY a JSON object in this exact shape — no markdown fencing, no text outside the JSON:
{
  "found_match": true or false,
  "best_recipe": {
    "name": "original recipe name",
    "url": "recipe URL",
    "category": "nationality/category",
    "ingredients": ["ingredient with quantity", "..."],
    "steps": ["detailed cooking step", "..."]
  } or null,
  "selection_reason": "why this recipe was chosen OR why no suitable recipe was found"
}`

// selectorStage runs the first model call: judge the candidates against the
// question and either extract one recipe or refuse. Decoding is deterministic
// (temperature 0) — this is a decision task, not a writing task.
type selectorStage struct {
	// model is the chat model to invoke.
	model ChatModel
}

// buildPrompt renders the candidates and question into the selector template.
func (s selectorStage) buildPrompt(docs []rag.Document, question string) string {
	var sb strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&sb, "[Candidate %d]\nURL: %s\nCategory: %s\nContent: %s\n---\n",
			i+1, doc.URL, doc.Category, doc.Content)
	}
	return fmt.Sprintf(selectorPrompt, len(docs), question, sb.String())
}

// parse validates the raw model output against the SelectionOutcome schema.
// Anything that fails validation is an ErrParse — the pipeline does not retry
// and does not trust partial output.
func (s selectorStage) parse(raw string) (*SelectionOutcome, error) {
	cleaned := stripCodeFence(raw)

	var outcome SelectionOutcome
	if err := json.Unmarshal([]byte(cleaned), &outcome); err != nil {
		return nil, parseErr("selector", err)
	}

	if !outcome.FoundMatch {
		return &outcome, nil
	}

	r := outcome.BestRecipe
	switch {
	case r == nil:
		return nil, parseErr("selector", fmt.Errorf("found_match is true but best_recipe is null"))
	case strings.TrimSpace(r.Name) == "":
		return nil, parseErr("selector", fmt.Errorf("best_recipe.name is empty"))
	case len(r.Ingredients) == 0:
		return nil, parseErr("selector", fmt.Errorf("best_recipe.ingredients is empty"))
	case len(r.Steps) == 0:
		return nil, parseErr("selector", fmt.Errorf("best_recipe.steps is empty"))
	}

	return &outcome, nil
}

// Run invokes the selector model call and returns the validated outcome.
func (s selectorStage) Run(ctx context.Context, docs []rag.Document, question string) (*SelectionOutcome, error) {
	msgs := []*schema.Message{
		schema.UserMessage(s.buildPrompt(docs, question)),
	}

	resp, err := s.model.Generate(ctx, msgs, model.WithTemperature(0))
	if err != nil {
		return nil, modelCallErr("selector", err)
	}
	if resp == nil {
		return nil, modelCallErr("selector", fmt.Errorf("nil response"))
	}

	return s.parse(resp.Content)
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON despite instructions. The content itself is untouched.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
