// Package pipeline orchestrates the multi-stage CV analysis: document text
// extraction, profile extraction, career recommendation, and interview
// question generation.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/jonathan/cv-insight/internal/extract"
	"github.com/jonathan/cv-insight/internal/normalize"
	"github.com/jonathan/cv-insight/internal/schemas"
	"github.com/jonathan/cv-insight/internal/tools"
	"github.com/jonathan/cv-insight/internal/types"
)

// Orchestrator sequences the four analysis stages. It holds no mutable state
// and is safe for concurrent runs.
type Orchestrator struct {
	extractor extract.Extractor
	profile   tools.Generator
	career    tools.Generator
	questions tools.Generator
}

// New creates an Orchestrator with explicit collaborators
func New(extractor extract.Extractor, profile, career, questions tools.Generator) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		profile:   profile,
		career:    career,
		questions: questions,
	}
}

// Process runs the full four-stage analysis for a document. It always
// returns a well-formed result: stage failures produce a failed envelope
// with an error message, never a propagated fault.
func (o *Orchestrator) Process(ctx context.Context, documentPath, targetRole, difficultyLevel string) (result *AnalysisResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline run panicked: %v", r)
			result = failedResult(documentPath, start, fmt.Errorf("internal pipeline fault: %v", r))
		}
	}()

	log.Printf("Stage 1/4: extracting text from %s", documentPath)
	rawText, err := o.extractor.Extract(documentPath)
	if err != nil {
		log.Printf("CV processing failed after %.2f seconds: %v", time.Since(start).Seconds(), err)
		return failedResult(documentPath, start, err)
	}

	log.Printf("Stage 2/4: extracting structured profile")
	profileRes, err := o.profile.Generate(ctx, rawText, tools.Context{})
	if err != nil {
		return failedResult(documentPath, start, err)
	}
	auditPayload("profile", profileRes, schemas.ValidateProfile)

	// Stage 3 receives whatever stage 2 produced, even degraded raw text.
	log.Printf("Stage 3/4: generating career recommendations")
	careerRes, err := o.career.Generate(ctx, profileRes.Text(), tools.Context{})
	if err != nil {
		return failedResult(documentPath, start, err)
	}
	auditPayload("recommendation", careerRes, schemas.ValidateRecommendation)

	log.Printf("Stage 4/4: generating interview questions")
	questionRes, err := o.questions.Generate(ctx, profileRes.Text(), tools.Context{
		TargetRole:      targetRole,
		DifficultyLevel: difficultyLevel,
	})
	if err != nil {
		return failedResult(documentPath, start, err)
	}
	auditPayload("question_set", questionRes, schemas.ValidateQuestionSet)

	elapsed := round2(time.Since(start).Seconds())
	log.Printf("CV processing completed in %.2f seconds", elapsed)

	return &AnalysisResult{
		ProcessingInfo: ProcessingInfo{
			FilePath:       documentPath,
			Status:         types.StatusCompleted,
			ProcessingTime: elapsed,
			Timestamp:      time.Now().UTC(),
		},
		RawText:               rawText,
		ProfileAnalysis:       profileRes.Value(),
		CareerRecommendations: careerRes.Value(),
		InterviewQuestions:    questionRes.Value(),
		Analytics:             ComputeQuickAnalytics(profileRes.Object(), careerRes.Object()),
	}
}

// QuickRecommendation runs only profile extraction and recommendation
// generation, for callers that do not need interview questions. It fails
// fast when the profile stage reports a backend error.
func (o *Orchestrator) QuickRecommendation(ctx context.Context, cvText string) *RecommendationEnvelope {
	start := time.Now()

	profileRes, err := o.profile.Generate(ctx, cvText, tools.Context{})
	if err != nil {
		log.Printf("quick recommendation failed: %v", err)
		return &RecommendationEnvelope{
			Success: false,
			Error:   fmt.Sprintf("could not extract profile from CV: %v", err),
		}
	}

	careerRes, err := o.career.Generate(ctx, profileRes.Text(), tools.Context{})
	if err != nil {
		log.Printf("quick recommendation failed: %v", err)
		return &RecommendationEnvelope{Success: false, Error: err.Error()}
	}

	return &RecommendationEnvelope{
		Success:              true,
		ProcessingTime:       round2(time.Since(start).Seconds()),
		ProfileSummary:       profileRes.Value(),
		CareerRecommendation: careerRes.Value(),
	}
}

// TargetedQuestions re-enters the question stage with an enriched prompt
// embedding the requested count and role, without re-running earlier stages.
func (o *Orchestrator) TargetedQuestions(ctx context.Context, profileText, targetRole, difficultyLevel string, questionCount int) *QuestionsEnvelope {
	start := time.Now()

	res, err := o.questions.Generate(ctx, profileText, tools.Context{
		TargetRole:      targetRole,
		DifficultyLevel: difficultyLevel,
		QuestionCount:   questionCount,
	})
	if err != nil {
		log.Printf("targeted question generation failed: %v", err)
		return &QuestionsEnvelope{Success: false, Error: err.Error()}
	}

	return &QuestionsEnvelope{
		Success:         true,
		ProcessingTime:  round2(time.Since(start).Seconds()),
		TargetRole:      targetRole,
		DifficultyLevel: difficultyLevel,
		Questions:       res.Value(),
	}
}

// auditPayload checks a parsed stage output against its schema and logs any
// deviation. Validation is advisory: degraded or partial payloads are still
// carried forward.
func auditPayload(stage string, res normalize.Result, check func(map[string]any) error) {
	if !res.IsParsed() {
		return
	}
	if err := check(res.Object()); err != nil {
		log.Printf("%s payload deviates from schema: %v", stage, err)
	}
}

// failedResult builds the failure envelope with the elapsed time up to the
// failure point. No stage output fields are populated.
func failedResult(documentPath string, start time.Time, err error) *AnalysisResult {
	return &AnalysisResult{
		ProcessingInfo: ProcessingInfo{
			FilePath:       documentPath,
			Status:         types.StatusFailed,
			ProcessingTime: round2(time.Since(start).Seconds()),
			Timestamp:      time.Now().UTC(),
			Error:          err.Error(),
		},
		Error: err.Error(),
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
