package tools

import (
	"context"

	"github.com/jonathan/cv-insight/internal/llm"
	"github.com/jonathan/cv-insight/internal/normalize"
	"github.com/jonathan/cv-insight/internal/prompts"
)

// ProfileSpec is the shape expected from the profile extractor.
func ProfileSpec() normalize.Spec {
	return normalize.Spec{
		Required: map[string]normalize.Kind{
			"personal_info":          normalize.Object,
			"skills":                 normalize.Object,
			"experience":             normalize.List,
			"education":              normalize.List,
			"certifications":         normalize.List,
			"languages":              normalize.List,
			"summary":                normalize.Text,
			"total_experience_years": normalize.Number,
			"key_achievements":       normalize.List,
		},
		Floats: []string{"total_experience_years"},
	}
}

// ProfileExtractor turns CV text into a structured candidate profile
type ProfileExtractor struct {
	client llm.Client
	opts   llm.GenerateOptions
}

// NewProfileExtractor creates a ProfileExtractor backed by the given client
func NewProfileExtractor(client llm.Client, opts llm.GenerateOptions) *ProfileExtractor {
	return &ProfileExtractor{client: client, opts: opts}
}

// Generate extracts a structured profile from CV text
func (t *ProfileExtractor) Generate(ctx context.Context, input string, _ Context) (normalize.Result, error) {
	prompt := prompts.Format(prompts.MustGet("tools.json", "extract-profile"), map[string]string{
		"CVText": input,
	})

	raw, err := t.client.Generate(ctx, prompt, t.opts)
	if err != nil {
		return normalize.Result{}, err
	}

	return normalize.Normalize(llm.CleanJSONBlock(raw), ProfileSpec()), nil
}
