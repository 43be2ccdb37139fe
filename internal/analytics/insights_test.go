package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-insight/internal/store"
	"github.com/jonathan/cv-insight/internal/types"
)

func TestInsights(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	id := uuid.New()
	rec := &types.AnalysisRecord{
		ID:               id,
		FileSize:         2048,
		ProcessingStatus: types.StatusCompleted,
		ProcessingTime:   ptrFloat(3.5),
		Skills:           []string{"go", "sql"},
		ExtractedProfile: map[string]any{
			"total_experience_years": 6.0,
			"education":              []any{map[string]any{"degree": "BSc"}},
			"certifications":         []any{"CKA"},
			"languages":              []any{"English", "Spanish"},
			"key_achievements":       []any{"Led migration"},
			"skills": map[string]any{
				"technical":   []any{"Go", "SQL"},
				"soft_skills": []any{"Mentoring"},
			},
			"experience": []any{
				map[string]any{"company": "Acme", "position": "Engineer", "years": 4.0},
				map[string]any{"company": "Globex", "position": "Senior Engineer", "years": 2.0},
			},
		},
		Recommendation: map[string]any{
			"primary_role":      "Staff Engineer",
			"confidence_score":  0.85,
			"alternative_roles": []any{"Tech Lead", "Architect"},
		},
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.InsertAnalysis(ctx, rec))

	agg := New(s)
	insights, err := agg.Insights(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id.String(), insights.CVID)
	assert.Equal(t, types.StatusCompleted, insights.ProcessingMetrics.Status)
	assert.Equal(t, int64(2048), insights.ProcessingMetrics.FileSize)

	assert.Equal(t, 6.0, insights.ProfileSummary.TotalExperienceYears)
	assert.Equal(t, 1, insights.ProfileSummary.EducationLevel)
	assert.Equal(t, 1, insights.ProfileSummary.CertificationsCount)
	assert.Equal(t, 2, insights.ProfileSummary.LanguagesCount)

	assert.Equal(t, 2, insights.SkillAnalysis.TotalSkills)
	assert.Equal(t, 2, insights.SkillAnalysis.TechnicalSkillsCount)
	assert.Equal(t, 1, insights.SkillAnalysis.SoftSkillsCount)

	assert.Equal(t, 6.0, insights.ExperienceAnalysis.TotalExperienceYears)
	assert.Equal(t, 2, insights.ExperienceAnalysis.CompaniesCount)
	assert.Equal(t, 2, insights.ExperienceAnalysis.UniqueRolesCount)
	assert.Equal(t, 3.0, insights.ExperienceAnalysis.AverageTenure)

	assert.Equal(t, "Staff Engineer", insights.CareerRecommendations.PrimaryRole)
	assert.Equal(t, 0.85, insights.CareerRecommendations.ConfidenceScore)
	assert.Equal(t, 3, insights.CareerRecommendations.RecommendationsCount)

	assert.Equal(t, "High", insights.MarketInsights.MarketDemand)
	assert.Equal(t, "USD", insights.MarketInsights.SalaryRange.Currency)

	// Fully populated profile triggers no suggestions
	assert.Empty(t, insights.ImprovementSuggestions)
}

func TestInsightsImprovementSuggestions(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	id := uuid.New()
	require.NoError(t, s.InsertAnalysis(ctx, &types.AnalysisRecord{
		ID:               id,
		ProcessingStatus: types.StatusCompleted,
		ExtractedProfile: map[string]any{
			"skills":    map[string]any{"soft_skills": []any{"Teamwork"}},
			"languages": []any{"English"},
		},
		CreatedAt: time.Now(),
	}))

	agg := New(s)
	insights, err := agg.Insights(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Consider adding more technical skills to your profile",
		"Professional certifications could strengthen your profile",
		"Additional language skills could be valuable",
	}, insights.ImprovementSuggestions)
}

func TestInsightsNotFound(t *testing.T) {
	agg := New(store.NewMemoryStore())

	_, err := agg.Insights(context.Background(), uuid.New())
	require.Error(t, err)

	var nfe *store.NotFoundError
	assert.True(t, errors.As(err, &nfe))
}

func TestInsightsDegradedRecord(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	// Failed run: no structured payloads at all
	id := uuid.New()
	require.NoError(t, s.InsertAnalysis(ctx, &types.AnalysisRecord{
		ID:               id,
		ProcessingStatus: types.StatusFailed,
		ErrorMessage:     "document extraction failed",
		CreatedAt:        time.Now(),
	}))

	agg := New(s)
	insights, err := agg.Insights(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, 0.0, insights.ProfileSummary.TotalExperienceYears)
	assert.Equal(t, 0, insights.SkillAnalysis.TotalSkills)
	assert.Equal(t, "", insights.CareerRecommendations.PrimaryRole)
	assert.Equal(t, 0, insights.CareerRecommendations.RecommendationsCount)
	assert.Len(t, insights.ImprovementSuggestions, 3)
}
