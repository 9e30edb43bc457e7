package commands

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/souschef-ai/souschef-go/internal/logging"
	"github.com/souschef-ai/souschef-go/internal/pipeline"
	"github.com/souschef-ai/souschef-go/internal/tracing"
)

// NewAskCmd constructs the `souschef ask` command, which answers a single
// recipe question and prints the answer to stdout.
func NewAskCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a recipe question",
		Long: `Ask SousChef a natural language recipe question, in Korean or English.
The answer comes back in the language of the question.

Examples:
  souschef ask "비건 아메리칸 요리 추천해줘"
  souschef ask "what can I cook with mushrooms and cream?"
  souschef ask --model advanced "a festive dessert without an oven"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			tier, err := pipeline.ParseTier(model)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			// Langfuse tracing — opt-in, no-op if keys are absent.
			if handler, flush, ok := tracing.Setup(); ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
			}

			store, err := newQdrantStore()
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer store.Close()

			p, err := buildPipeline(ctx, newRetrieverSource(store, log))
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			question := strings.Join(args, " ")
			resp := p.Recommend(ctx, question, tier)

			fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "fast", "Model tier to answer with (fast, advanced)")

	return cmd
}
