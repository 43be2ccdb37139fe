package tools

import (
	"context"

	"github.com/jonathan/cv-insight/internal/llm"
	"github.com/jonathan/cv-insight/internal/normalize"
	"github.com/jonathan/cv-insight/internal/prompts"
)

// RecommendationSpec is the shape expected from the career recommender.
func RecommendationSpec() normalize.Spec {
	return normalize.Spec{
		Required: map[string]normalize.Kind{
			"primary_role":      normalize.Text,
			"alternative_roles": normalize.List,
			"confidence_score":  normalize.Number,
			"reasoning":         normalize.Text,
			"required_skills":   normalize.List,
			"skill_gaps":        normalize.List,
			"salary_range":      normalize.Object,
			"growth_potential":  normalize.Text,
			"industry_demand":   normalize.Text,
		},
		Floats: []string{"confidence_score"},
	}
}

// CareerRecommender generates career recommendations from a profile
type CareerRecommender struct {
	client llm.Client
	opts   llm.GenerateOptions
}

// NewCareerRecommender creates a CareerRecommender backed by the given client
func NewCareerRecommender(client llm.Client, opts llm.GenerateOptions) *CareerRecommender {
	return &CareerRecommender{client: client, opts: opts}
}

// Generate produces a recommendation for the given profile text. The input
// may be degraded (non-JSON) profile output; it is passed through as-is.
func (t *CareerRecommender) Generate(ctx context.Context, input string, _ Context) (normalize.Result, error) {
	prompt := prompts.Format(prompts.MustGet("tools.json", "recommend-career"), map[string]string{
		"ProfileText": input,
	})

	raw, err := t.client.Generate(ctx, prompt, t.opts)
	if err != nil {
		return normalize.Result{}, err
	}

	return normalize.Normalize(llm.CleanJSONBlock(raw), RecommendationSpec()), nil
}
