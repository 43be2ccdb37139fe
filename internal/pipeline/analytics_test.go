package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileCompleteness(t *testing.T) {
	tests := []struct {
		name    string
		profile map[string]any
		want    float64
	}{
		{
			name:    "Not an object",
			profile: nil,
			want:    0.0,
		},
		{
			name: "Two of four sections populated",
			profile: map[string]any{
				"personal_info": map[string]any{"name": "Jane"},
				"skills":        map[string]any{"technical": []any{"Go"}},
			},
			want: 50.0,
		},
		{
			name: "All sections populated",
			profile: map[string]any{
				"personal_info": map[string]any{"name": "Jane"},
				"skills":        map[string]any{"technical": []any{"Go"}},
				"experience":    []any{map[string]any{"company": "Acme"}},
				"education":     []any{map[string]any{"degree": "BSc"}},
			},
			want: 100.0,
		},
		{
			name: "Empty sections do not count",
			profile: map[string]any{
				"personal_info": map[string]any{},
				"skills":        map[string]any{},
				"experience":    []any{},
				"education":     []any{map[string]any{"degree": "BSc"}},
			},
			want: 25.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, profileCompleteness(tt.profile))
		})
	}
}

func TestSkillDiversity(t *testing.T) {
	profile := map[string]any{
		"skills": map[string]any{
			"technical": []any{"a", "b"},
			"soft":      []any{"c"},
		},
	}
	assert.Equal(t, 3, skillDiversity(profile))

	assert.Equal(t, 0, skillDiversity(nil))
	assert.Equal(t, 0, skillDiversity(map[string]any{}))
	assert.Equal(t, 0, skillDiversity(map[string]any{"skills": "oops"}))

	mixed := map[string]any{
		"skills": map[string]any{
			"technical": []any{"a"},
			"bad":       "not a list",
		},
	}
	assert.Equal(t, 1, skillDiversity(mixed))
}

func TestExperienceLevel_Boundaries(t *testing.T) {
	tests := []struct {
		years float64
		want  string
	}{
		{0, "entry"},
		{1.9, "entry"},
		{2.0, "junior"},
		{4.9, "junior"},
		{5.0, "mid"},
		{9.9, "mid"},
		{10.0, "senior"},
		{25, "senior"},
	}

	for _, tt := range tests {
		profile := map[string]any{"total_experience_years": tt.years}
		assert.Equal(t, tt.want, experienceLevel(profile), "years=%v", tt.years)
	}

	assert.Equal(t, "unknown", experienceLevel(nil))
}

func TestCareerConfidence(t *testing.T) {
	assert.Equal(t, 0.85, careerConfidence(map[string]any{"confidence_score": 0.85}))
	assert.Equal(t, 0.0, careerConfidence(map[string]any{}))
	assert.Equal(t, 0.0, careerConfidence(nil))
	assert.Equal(t, 0.0, careerConfidence(map[string]any{"confidence_score": "high"}))
}

func TestRecommendationsCount(t *testing.T) {
	assert.Equal(t, 0, recommendationsCount(nil))
	assert.Equal(t, 1, recommendationsCount(map[string]any{}))
	assert.Equal(t, 1, recommendationsCount(map[string]any{"alternative_roles": []any{}}))
	assert.Equal(t, 3, recommendationsCount(map[string]any{"alternative_roles": []any{"a", "b"}}))
}

func TestComputeQuickAnalytics(t *testing.T) {
	profile := map[string]any{
		"personal_info":          map[string]any{"name": "Jane"},
		"skills":                 map[string]any{"technical": []any{"Go", "SQL"}},
		"total_experience_years": 6.0,
	}
	career := map[string]any{
		"confidence_score":  0.7,
		"alternative_roles": []any{"Data Engineer"},
	}

	qa := ComputeQuickAnalytics(profile, career)
	assert.Equal(t, 50.0, qa.ProfileCompleteness)
	assert.Equal(t, 2, qa.SkillDiversity)
	assert.Equal(t, "mid", qa.ExperienceLevel)
	assert.Equal(t, 0.7, qa.CareerConfidence)
	assert.Equal(t, 2, qa.RecommendationsCount)
}
