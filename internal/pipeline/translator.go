package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// translatorTemperature is the only non-zero temperature in the pipeline.
// Idiomatic phrasing in the target language benefits from mild sampling, and
// this stage cannot introduce new facts — it operates on finalized text.
const translatorTemperature = 0.3

// translatorPrompt translates the finished English card into the target
// language. The selection-reason footer is called out explicitly because
// models reliably forget to translate it otherwise.
const translatorPrompt = `You are a professional Translator & Executive Head Chef.
Your GOAL is to translate the provided [Recipe Text] into **%s** perfectly.

**CRITICAL TRANSLATION RULES**:
1. **Translate EVERYTHING**: You must translate NOT ONLY the headers but also the **Ingredient List**, **Step-by-step Instructions**, and especially the **Selection Reason** at the bottom.
2. **Selection Reason**: The text under "Selection Reason" MUST be translated into %s. Do not leave it in English.
3. **Ingredients & Steps**: Translate ingredient names and cooking actions into natural %s terms (e.g., '1 tsp' -> '1 작은술', 'Drain' -> '물기를 빼다').
4. **Tone**: Use a polite and warm Chef's tone (e.g., Korean: "~하세요", "~입니다").
5. **Format**: Keep the Markdown structure (###, **, -) and emojis exactly as they are.

**[Input Recipe Text]**:
%s

**[Output in %s]**:`

// translatorStage runs the third model call: carry the pivot-language card
// into the detected target language, structure and emoji intact.
type translatorStage struct {
	// model is the chat model to invoke.
	model ChatModel
}

// buildPrompt renders the card and target language into the translator template.
func (t translatorStage) buildPrompt(card string, lang Language) string {
	l := string(lang)
	return fmt.Sprintf(translatorPrompt, l, l, l, card, l)
}

// Run invokes the translator model call and returns the final answer text.
func (t translatorStage) Run(ctx context.Context, card string, lang Language) (string, error) {
	msgs := []*schema.Message{
		schema.UserMessage(t.buildPrompt(card, lang)),
	}

	resp, err := t.model.Generate(ctx, msgs, model.WithTemperature(translatorTemperature))
	if err != nil {
		return "", modelCallErr("translator", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", modelCallErr("translator", fmt.Errorf("empty response"))
	}

	return strings.TrimSpace(resp.Content), nil
}
