package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-insight/internal/extract"
	"github.com/jonathan/cv-insight/internal/llm"
	"github.com/jonathan/cv-insight/internal/normalize"
	"github.com/jonathan/cv-insight/internal/tools"
	"github.com/jonathan/cv-insight/internal/types"
)

// fakeExtractor returns fixed text or a fixed error
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(string) (string, error) {
	return f.text, f.err
}

// fakeGenerator returns a canned result and records its inputs
type fakeGenerator struct {
	result normalize.Result
	err    error
	inputs []string
	tcs    []tools.Context
}

func (f *fakeGenerator) Generate(_ context.Context, input string, tc tools.Context) (normalize.Result, error) {
	f.inputs = append(f.inputs, input)
	f.tcs = append(f.tcs, tc)
	if f.err != nil {
		return normalize.Result{}, f.err
	}
	return f.result, nil
}

func newTestOrchestrator(ex extract.Extractor, profile, career, questions *fakeGenerator) *Orchestrator {
	return New(ex, profile, career, questions)
}

func TestProcess_HappyPath(t *testing.T) {
	profile := &fakeGenerator{result: normalize.Parsed(map[string]any{
		"personal_info":          map[string]any{"name": "Jane"},
		"skills":                 map[string]any{"technical": []any{"Go"}},
		"experience":             []any{map[string]any{"company": "Acme"}},
		"education":              []any{map[string]any{"degree": "BSc"}},
		"total_experience_years": 3.0,
	})}
	career := &fakeGenerator{result: normalize.Parsed(map[string]any{
		"primary_role":     "Backend Engineer",
		"confidence_score": 0.9,
	})}
	questions := &fakeGenerator{result: normalize.Parsed(map[string]any{
		"questions":       []any{},
		"total_questions": float64(0),
	})}

	o := newTestOrchestrator(&fakeExtractor{text: "raw cv text"}, profile, career, questions)
	result := o.Process(context.Background(), "cv.pdf", "Backend Engineer", "advanced")

	assert.Equal(t, types.StatusCompleted, result.ProcessingInfo.Status)
	assert.Empty(t, result.ProcessingInfo.Error)
	assert.Equal(t, "raw cv text", result.RawText)
	assert.NotNil(t, result.ProfileAnalysis)
	assert.NotNil(t, result.CareerRecommendations)
	assert.NotNil(t, result.InterviewQuestions)

	require.NotNil(t, result.Analytics)
	assert.Equal(t, 100.0, result.Analytics.ProfileCompleteness)
	assert.Equal(t, "junior", result.Analytics.ExperienceLevel)
	assert.Equal(t, 0.9, result.Analytics.CareerConfidence)

	// Stage 3 and 4 consume stage 2's serialized output
	require.Len(t, career.inputs, 1)
	assert.Contains(t, career.inputs[0], "Jane")
	require.Len(t, questions.tcs, 1)
	assert.Equal(t, "Backend Engineer", questions.tcs[0].TargetRole)
	assert.Equal(t, "advanced", questions.tcs[0].DifficultyLevel)
}

func TestProcess_ExtractionErrorAborts(t *testing.T) {
	extErr := &extract.ExtractionError{Path: "cv.pdf", Message: "file not found"}
	profile := &fakeGenerator{}
	o := newTestOrchestrator(&fakeExtractor{err: extErr}, profile, &fakeGenerator{}, &fakeGenerator{})

	result := o.Process(context.Background(), "cv.pdf", "", "")

	assert.Equal(t, types.StatusFailed, result.ProcessingInfo.Status)
	assert.Contains(t, result.ProcessingInfo.Error, "file not found")
	assert.Contains(t, result.Error, "file not found")
	assert.Nil(t, result.ProfileAnalysis)
	assert.Nil(t, result.CareerRecommendations)
	assert.Nil(t, result.InterviewQuestions)
	assert.Empty(t, profile.inputs, "later stages must not run")
}

func TestProcess_StageCallErrorFailsRun(t *testing.T) {
	profile := &fakeGenerator{err: &llm.CallError{Message: "deadline exceeded"}}
	career := &fakeGenerator{}
	o := newTestOrchestrator(&fakeExtractor{text: "cv"}, profile, career, &fakeGenerator{})

	result := o.Process(context.Background(), "cv.txt", "", "")

	assert.Equal(t, types.StatusFailed, result.ProcessingInfo.Status)
	assert.Contains(t, result.Error, "deadline exceeded")
	assert.Empty(t, career.inputs, "downstream stage must not run without stage 2 output")
}

func TestProcess_DegradedProfilePropagates(t *testing.T) {
	// Stage 2 degrades to raw text; stage 3 still runs with that text.
	profile := &fakeGenerator{result: normalize.Unparsed("the model rambled")}
	career := &fakeGenerator{result: normalize.Parsed(map[string]any{"primary_role": "Analyst"})}
	questions := &fakeGenerator{result: normalize.Parsed(map[string]any{"questions": []any{}})}

	o := newTestOrchestrator(&fakeExtractor{text: "cv"}, profile, career, questions)
	result := o.Process(context.Background(), "cv.txt", "", "")

	assert.Equal(t, types.StatusCompleted, result.ProcessingInfo.Status)
	assert.Equal(t, "the model rambled", result.ProfileAnalysis)
	require.Len(t, career.inputs, 1)
	assert.Equal(t, "the model rambled", career.inputs[0])

	// Degraded profile yields zeroed quick analytics
	assert.Equal(t, 0.0, result.Analytics.ProfileCompleteness)
	assert.Equal(t, "unknown", result.Analytics.ExperienceLevel)
}

func TestQuickRecommendation(t *testing.T) {
	profile := &fakeGenerator{result: normalize.Parsed(map[string]any{"summary": "engineer"})}
	career := &fakeGenerator{result: normalize.Parsed(map[string]any{"primary_role": "SRE"})}
	questions := &fakeGenerator{}

	o := newTestOrchestrator(&fakeExtractor{}, profile, career, questions)
	env := o.QuickRecommendation(context.Background(), "raw cv text")

	require.True(t, env.Success)
	assert.NotNil(t, env.ProfileSummary)
	assert.NotNil(t, env.CareerRecommendation)
	assert.Empty(t, questions.inputs, "question stage must not run")
}

func TestQuickRecommendation_FailsFastOnProfileError(t *testing.T) {
	profile := &fakeGenerator{err: &llm.CallError{Message: "boom"}}
	career := &fakeGenerator{}

	o := newTestOrchestrator(&fakeExtractor{}, profile, career, &fakeGenerator{})
	env := o.QuickRecommendation(context.Background(), "cv")

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "could not extract profile from CV")
	assert.Empty(t, career.inputs)
}

func TestTargetedQuestions(t *testing.T) {
	questions := &fakeGenerator{result: normalize.Parsed(map[string]any{
		"questions":       []any{map[string]any{"question": "Q1"}},
		"total_questions": float64(1),
	})}

	o := newTestOrchestrator(&fakeExtractor{}, &fakeGenerator{}, &fakeGenerator{}, questions)
	env := o.TargetedQuestions(context.Background(), "profile text", "Platform Engineer", "advanced", 10)

	require.True(t, env.Success)
	assert.Equal(t, "Platform Engineer", env.TargetRole)
	assert.Equal(t, "advanced", env.DifficultyLevel)

	require.Len(t, questions.tcs, 1)
	assert.Equal(t, 10, questions.tcs[0].QuestionCount)
	require.Len(t, questions.inputs, 1)
	assert.Equal(t, "profile text", questions.inputs[0])
}

func TestTargetedQuestions_GeneratorError(t *testing.T) {
	questions := &fakeGenerator{err: &llm.CallError{Message: "unavailable"}}

	o := newTestOrchestrator(&fakeExtractor{}, &fakeGenerator{}, &fakeGenerator{}, questions)
	env := o.TargetedQuestions(context.Background(), "profile", "SRE", "intermediate", 5)

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "unavailable")
}
