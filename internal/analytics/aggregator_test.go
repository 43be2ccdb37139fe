package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-insight/internal/store"
	"github.com/jonathan/cv-insight/internal/types"
)

func ptrFloat(v float64) *float64 { return &v }

func seedAnalysis(t *testing.T, s *store.MemoryStore, rec *types.AnalysisRecord) {
	t.Helper()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	require.NoError(t, s.InsertAnalysis(context.Background(), rec))
}

func TestCVStatistics(t *testing.T) {
	now := time.Now()
	s := store.NewMemoryStore()
	seedAnalysis(t, s, &types.AnalysisRecord{
		FileType: "pdf", ProcessingStatus: types.StatusCompleted,
		ProcessingTime: ptrFloat(2.0), CreatedAt: now,
	})
	seedAnalysis(t, s, &types.AnalysisRecord{
		FileType: "pdf", ProcessingStatus: types.StatusCompleted,
		ProcessingTime: ptrFloat(4.0), CreatedAt: now,
	})
	seedAnalysis(t, s, &types.AnalysisRecord{
		FileType: "txt", ProcessingStatus: types.StatusFailed, CreatedAt: now,
	})

	agg := New(s)
	stats, err := agg.CVStats(context.Background(), 30, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalCVsProcessed)
	assert.Equal(t, 2, stats.SuccessfulAnalyses)
	assert.InDelta(t, 66.666, stats.SuccessRate, 0.01)
	// Mean over records with a recorded duration only
	assert.Equal(t, 3.0, stats.AverageProcessingTime)
	assert.Equal(t, map[string]int{"pdf": 2, "txt": 1}, stats.FileTypes)
}

func TestCVStatisticsEmptyStore(t *testing.T) {
	agg := New(store.NewMemoryStore())
	stats, err := agg.CVStats(context.Background(), 30, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalCVsProcessed)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Equal(t, 0.0, stats.AverageProcessingTime)
}

func TestInterviewStatistics(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := store.NewMemoryStore()

	sessions := []*types.InterviewSession{
		{ID: uuid.New(), DifficultyLevel: "advanced", TotalQuestions: 10, EstimatedDuration: 40, CompletionStatus: types.SessionCompleted, CreatedAt: now},
		{ID: uuid.New(), DifficultyLevel: "intermediate", TotalQuestions: 6, EstimatedDuration: 24, CompletionStatus: types.SessionDraft, CreatedAt: now},
	}
	for _, sess := range sessions {
		require.NoError(t, s.InsertSession(ctx, sess))
	}

	agg := New(s)
	stats, err := agg.InterviewStats(ctx, 30, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalInterviewSessions)
	assert.Equal(t, 8.0, stats.AverageQuestionsPerSession)
	assert.Equal(t, 32.0, stats.AverageEstimatedDuration)
	assert.Equal(t, map[string]int{"advanced": 1, "intermediate": 1}, stats.DifficultyDistribution)
	assert.Equal(t, 50.0, stats.CompletionRate)
}

func TestSkillTrendsTwoBucketComparison(t *testing.T) {
	s := store.NewMemoryStore()
	previous := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	// June: go x2, python x1, rust x1
	seedAnalysis(t, s, &types.AnalysisRecord{Skills: []string{"Go", "Python", "Rust"}, CreatedAt: previous})
	seedAnalysis(t, s, &types.AnalysisRecord{Skills: []string{"go"}, CreatedAt: previous})
	// July: go x1, python x2
	seedAnalysis(t, s, &types.AnalysisRecord{Skills: []string{"Go", "Python"}, CreatedAt: recent})
	seedAnalysis(t, s, &types.AnalysisRecord{Skills: []string{"python"}, CreatedAt: recent})

	agg := New(s)
	agg.now = func() time.Time { return recent.Add(24 * time.Hour) }

	trends, err := agg.SkillTrendData(context.Background(), 90, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"go": 2, "python": 1, "rust": 1}, trends.MonthlyTrends["2026-06"])
	assert.Equal(t, map[string]int{"go": 1, "python": 2}, trends.MonthlyTrends["2026-07"])
	assert.Equal(t, []string{"python"}, trends.TrendingUp)
	assert.Equal(t, []string{"go", "rust"}, trends.TrendingDown)
}

func TestSkillTrendsSingleBucket(t *testing.T) {
	s := store.NewMemoryStore()
	seedAnalysis(t, s, &types.AnalysisRecord{Skills: []string{"go"}, CreatedAt: time.Now()})

	agg := New(s)
	trends, err := agg.SkillTrendData(context.Background(), 30, nil)
	require.NoError(t, err)

	assert.Empty(t, trends.TrendingUp)
	assert.Empty(t, trends.TrendingDown)
}

func TestCareerTrends(t *testing.T) {
	s := store.NewMemoryStore()
	previous := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	rec := func(role string, at time.Time) *types.AnalysisRecord {
		return &types.AnalysisRecord{
			Recommendation: map[string]any{"primary_role": role},
			CreatedAt:      at,
		}
	}
	seedAnalysis(t, s, rec("Backend Engineer", previous))
	seedAnalysis(t, s, rec("Backend Engineer", recent))
	seedAnalysis(t, s, rec("Backend Engineer", recent))
	seedAnalysis(t, s, rec("ML Engineer", recent))
	// Record without a recommendation object contributes nothing
	seedAnalysis(t, s, &types.AnalysisRecord{CreatedAt: recent})

	agg := New(s)
	agg.now = func() time.Time { return recent.Add(24 * time.Hour) }

	trends, err := agg.CareerTrendData(context.Background(), 90, nil)
	require.NoError(t, err)

	require.Len(t, trends.PopularRoles, 2)
	assert.Equal(t, RankedRole{Role: "Backend Engineer", Frequency: 3}, trends.PopularRoles[0])
	assert.Equal(t, RankedRole{Role: "ML Engineer", Frequency: 1}, trends.PopularRoles[1])
	assert.Equal(t, []string{"ML Engineer"}, trends.EmergingRoles)
}

func TestPerformanceMetrics(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Now()

	values := []float64{100, 200, 300}
	for _, v := range values {
		require.NoError(t, s.InsertMetric(ctx, &types.MetricSample{
			ID: uuid.New(), Name: "response_time", Value: v, RecordedAt: now,
		}))
	}
	require.NoError(t, s.InsertMetric(ctx, &types.MetricSample{
		ID: uuid.New(), Name: "queue_depth", Value: 7, RecordedAt: now,
	}))

	agg := New(s)
	stats, err := agg.Performance(ctx, 30)
	require.NoError(t, err)

	require.Contains(t, stats, "response_time")
	assert.Equal(t, MetricSummary{Average: 200, Min: 100, Max: 300, Count: 3}, stats["response_time"])
	assert.Equal(t, MetricSummary{Average: 7, Min: 7, Max: 7, Count: 1}, stats["queue_depth"])
}

func TestDashboardHealthScore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Now()

	// 95% CV success rate: 19 completed, 1 failed
	for i := 0; i < 19; i++ {
		seedAnalysis(t, s, &types.AnalysisRecord{ProcessingStatus: types.StatusCompleted, CreatedAt: now})
	}
	seedAnalysis(t, s, &types.AnalysisRecord{ProcessingStatus: types.StatusFailed, CreatedAt: now})

	// 85% completion rate: 17 completed, 3 draft
	for i := 0; i < 20; i++ {
		status := types.SessionCompleted
		if i < 3 {
			status = types.SessionDraft
		}
		require.NoError(t, s.InsertSession(ctx, &types.InterviewSession{
			ID: uuid.New(), CompletionStatus: status, CreatedAt: now,
		}))
	}

	agg := New(s)
	data, err := agg.Dashboard(ctx, 30, nil)
	require.NoError(t, err)

	assert.Equal(t, 95.0, data.CVAnalytics.SuccessRate)
	assert.Equal(t, 85.0, data.InterviewAnalytics.CompletionRate)
	assert.Equal(t, 90.0, data.Summary.HealthScore)
	assert.Equal(t, 20, data.Summary.TotalProcessed)
	assert.Equal(t, 20, data.Summary.TotalInterviews)
	assert.Equal(t, 30, data.Period.Days)
}

func TestSkillAnalytics(t *testing.T) {
	s := store.NewMemoryStore()
	now := time.Now()

	seedAnalysis(t, s, &types.AnalysisRecord{
		Skills: []string{"Python", "go"},
		ExtractedProfile: map[string]any{
			"skills": map[string]any{
				"technical": []any{"Python", "Go"},
				"soft_skills": []any{"Communication"},
			},
		},
		Recommendation: map[string]any{"skill_gaps": []any{"Kubernetes"}},
		CreatedAt:      now,
	})
	seedAnalysis(t, s, &types.AnalysisRecord{
		Skills: []string{"python"},
		ExtractedProfile: map[string]any{
			"skills": map[string]any{"technical": []any{"python"}},
		},
		CreatedAt: now,
	})

	agg := New(s)
	got, err := agg.Skills(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalUniqueSkills)
	assert.Equal(t, 3, got.TotalSkillMentions)
	require.Len(t, got.TopSkills, 2)
	assert.Equal(t, RankedSkill{Skill: "python", Frequency: 2}, got.TopSkills[0])
	assert.Equal(t, RankedSkill{Skill: "go", Frequency: 1}, got.TopSkills[1])
	assert.Equal(t, map[string]int{"python": 2, "go": 1}, got.SkillCategories["technical"])
	assert.Equal(t, map[string]int{"communication": 1}, got.SkillCategories["soft_skills"])
	assert.Equal(t, 75.0, got.SkillDistribution["technical"])
	assert.Equal(t, 25.0, got.SkillDistribution["soft_skills"])
	assert.Equal(t, []string{"kubernetes"}, got.SkillGaps)
}

func TestSkillAnalyticsStable(t *testing.T) {
	s := store.NewMemoryStore()
	now := time.Now()
	// Equal frequencies force the tie-break path
	for _, skills := range [][]string{{"go", "python"}, {"rust", "java"}, {"kotlin", "scala"}} {
		seedAnalysis(t, s, &types.AnalysisRecord{Skills: skills, CreatedAt: now})
	}

	agg := New(s)
	first, err := agg.Skills(context.Background(), nil)
	require.NoError(t, err)
	second, err := agg.Skills(context.Background(), nil)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestCareerAnalyticsConfidenceBuckets(t *testing.T) {
	s := store.NewMemoryStore()
	now := time.Now()

	scores := []float64{0.95, 0.8, 0.79, 0.5, 0.49, 1.4, -0.2}
	for _, score := range scores {
		seedAnalysis(t, s, &types.AnalysisRecord{
			Recommendation: map[string]any{"primary_role": "Engineer", "confidence_score": score},
			CreatedAt:      now,
		})
	}

	agg := New(s)
	got, err := agg.Careers(context.Background(), nil)
	require.NoError(t, err)

	// Boundary-inclusive buckets; out-of-range scores land in edge buckets
	assert.Equal(t, map[string]int{"high": 3, "medium": 2, "low": 2}, got.ConfidenceDistribution)
	assert.Equal(t, 7, got.TotalRecommendations)
	assert.Equal(t, 1, got.UniqueRoles)
	require.Len(t, got.TopRecommendedRoles, 1)
	assert.Equal(t, RankedRole{Role: "Engineer", Frequency: 7}, got.TopRecommendedRoles[0])
}

func TestAggregatorMalformedRecordsSkipped(t *testing.T) {
	s := store.NewMemoryStore()
	now := time.Now()

	// Malformed nested shapes everywhere should aggregate as empty
	seedAnalysis(t, s, &types.AnalysisRecord{
		ExtractedProfile: map[string]any{"skills": "not an object"},
		Recommendation:   map[string]any{"primary_role": 42, "skill_gaps": "nope"},
		CreatedAt:        now,
	})

	agg := New(s)
	skills, err := agg.Skills(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, skills.TotalUniqueSkills)
	assert.Empty(t, skills.SkillGaps)

	careers, err := agg.Careers(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, careers.UniqueRoles)
}

func TestTrendTruncate(t *testing.T) {
	skills := SkillTrends{
		TrendingUp:   []string{"go", "python", "rust"},
		TrendingDown: []string{"perl"},
	}
	skills.Truncate(2)
	assert.Equal(t, []string{"go", "python"}, skills.TrendingUp)
	assert.Equal(t, []string{"perl"}, skills.TrendingDown)

	careers := CareerTrends{
		PopularRoles: []RankedRole{
			{Role: "Backend Engineer", Frequency: 5},
			{Role: "Data Engineer", Frequency: 3},
			{Role: "SRE", Frequency: 1},
		},
		EmergingRoles: []string{"ML Engineer", "Platform Engineer"},
	}
	careers.Truncate(1)
	assert.Equal(t, []RankedRole{{Role: "Backend Engineer", Frequency: 5}}, careers.PopularRoles)
	assert.Equal(t, []string{"ML Engineer"}, careers.EmergingRoles)

	// Non-positive limit is a no-op
	skills.Truncate(0)
	assert.Len(t, skills.TrendingUp, 2)
}
