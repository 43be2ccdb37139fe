package tools

import (
	"context"
	"strconv"

	"github.com/jonathan/cv-insight/internal/llm"
	"github.com/jonathan/cv-insight/internal/normalize"
	"github.com/jonathan/cv-insight/internal/prompts"
)

// QuestionGenerator produces interview question sets from a profile
type QuestionGenerator struct {
	client llm.Client
	opts   llm.GenerateOptions
}

// NewQuestionGenerator creates a QuestionGenerator backed by the given client
func NewQuestionGenerator(client llm.Client, opts llm.GenerateOptions) *QuestionGenerator {
	return &QuestionGenerator{client: client, opts: opts}
}

// Generate produces a question set. When tc.QuestionCount is set the
// targeted prompt embedding the requested count and role is used instead of
// the standard one.
func (t *QuestionGenerator) Generate(ctx context.Context, input string, tc Context) (normalize.Result, error) {
	difficulty := tc.DifficultyLevel
	if difficulty == "" {
		difficulty = "intermediate"
	}
	targetRole := tc.TargetRole
	if targetRole == "" {
		targetRole = "Based on profile analysis"
	}

	var prompt string
	if tc.QuestionCount > 0 {
		enriched := prompts.Format(prompts.MustGet("tools.json", "targeted-questions"), map[string]string{
			"ProfileText":     input,
			"TargetRole":      targetRole,
			"DifficultyLevel": difficulty,
			"QuestionCount":   strconv.Itoa(tc.QuestionCount),
		})
		prompt = prompts.Format(prompts.MustGet("tools.json", "generate-questions"), map[string]string{
			"ProfileText":     enriched,
			"TargetRole":      targetRole,
			"DifficultyLevel": difficulty,
		})
	} else {
		prompt = prompts.Format(prompts.MustGet("tools.json", "generate-questions"), map[string]string{
			"ProfileText":     input,
			"TargetRole":      targetRole,
			"DifficultyLevel": difficulty,
		})
	}

	raw, err := t.client.Generate(ctx, prompt, t.opts)
	if err != nil {
		return normalize.Result{}, err
	}

	return normalize.NormalizeQuestionSet(llm.CleanJSONBlock(raw)), nil
}
