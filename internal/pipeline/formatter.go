package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/souschef-ai/souschef-go/internal/logging"
)

// formatterPrompt renders the extracted recipe into the fixed English
// Markdown card. The role framing ("NOT a Chef") matters: this stage
// transcribes, it does not cook. Separating faithful transcription from
// translation keeps each call's hallucination surface small.
const formatterPrompt = `Role: Technical Data Translator & Formatter. (NOT a Chef)
Task: Convert the provided [JSON Data] into a specific Markdown format in ENGLISH.

**CRITICAL RULES (VIOLATION = FAIL)**:
1. **NO CREATIVITY**: Do NOT generate, invent, or hallucinate any new ingredients or steps.
2. **STRICT TRANSLATION**: Only translate the values inside the JSON into English.
3. **QUANTITY**: If the JSON does not specify quantities (e.g., "salt"), write ONLY "Salt". Do NOT guess "1 tsp Salt".
4. **INTEGRITY**: If the JSON 'steps' list has 3 items, your output MUST have exactly 3 steps. Same for 'ingredients'.

**Input Data**:
%s

**Target Output Format**:

### 🍳 %s [[Link]](%s)

**Cuisine**: %s

**Ingredients**:
(List items exactly as found in JSON 'ingredients', one "- " bullet per item)

**👨‍🍳 Instructions**:
(List items exactly as found in JSON 'steps', numbered "1." onwards)

---
### 🌟 Selection Reason
%s

[User Question]: %s`

// formatterStage runs the second model call: render the selector's structured
// extraction into the pivot-language (English) card. Deterministic decoding —
// there is nothing to be creative about.
type formatterStage struct {
	// model is the chat model to invoke.
	model ChatModel
}

// buildPrompt renders the recipe and selection reason into the formatter template.
func (f formatterStage) buildPrompt(outcome *SelectionOutcome, question string) (string, error) {
	recipeJSON, err := json.Marshal(outcome.BestRecipe)
	if err != nil {
		return "", fmt.Errorf("pipeline: formatter: marshal recipe: %w", err)
	}

	r := outcome.BestRecipe
	url := r.URL
	if url == "" {
		url = "#"
	}
	category := r.Category
	if category == "" {
		category = "Unknown"
	}

	return fmt.Sprintf(formatterPrompt,
		string(recipeJSON), r.Name, url, category, outcome.SelectionReason, question), nil
}

// Run invokes the formatter model call and returns the English Markdown card.
// As a defensive post-condition the rendered ingredient/step counts are
// compared against the structured input; a mismatch is logged but does not
// fail the request — the card is still a usable answer.
func (f formatterStage) Run(ctx context.Context, outcome *SelectionOutcome, question string) (string, error) {
	prompt, err := f.buildPrompt(outcome, question)
	if err != nil {
		return "", err
	}

	resp, err := f.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, model.WithTemperature(0))
	if err != nil {
		return "", modelCallErr("formatter", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", modelCallErr("formatter", fmt.Errorf("empty response"))
	}

	card := strings.TrimSpace(resp.Content)

	ingredients, steps := CardCounts(card)
	if ingredients != len(outcome.BestRecipe.Ingredients) || steps != len(outcome.BestRecipe.Steps) {
		logging.FromContext(ctx).Warn("formatter: card item counts diverge from structured input",
			slog.Int("card_ingredients", ingredients),
			slog.Int("want_ingredients", len(outcome.BestRecipe.Ingredients)),
			slog.Int("card_steps", steps),
			slog.Int("want_steps", len(outcome.BestRecipe.Steps)),
		)
	}

	return card, nil
}

// CardCounts scans a rendered recipe card and returns the number of
// ingredient bullets and instruction items it contains. Used by the
// formatter's integrity check and by tests asserting the non-invention
// invariant.
func CardCounts(card string) (ingredients, steps int) {
	const (
		sectionNone = iota
		sectionIngredients
		sectionSteps
	)

	section := sectionNone
	for _, line := range strings.Split(card, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.Contains(trimmed, "**Ingredients**"):
			section = sectionIngredients
			continue
		case strings.Contains(trimmed, "Instructions**"):
			section = sectionSteps
			continue
		case strings.HasPrefix(trimmed, "---") || strings.HasPrefix(trimmed, "###"):
			section = sectionNone
			continue
		}

		if trimmed == "" {
			continue
		}

		switch section {
		case sectionIngredients:
			if isListItem(trimmed) {
				ingredients++
			}
		case sectionSteps:
			if isListItem(trimmed) {
				steps++
			}
		}
	}
	return ingredients, steps
}

// isListItem reports whether a line is a Markdown bullet ("- ", "* ") or a
// numbered item ("1.", "12.").
func isListItem(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return true
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line) && line[i] == '.'
}
