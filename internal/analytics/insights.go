package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/cv-insight/internal/types"
)

// Insights builds the consolidated insight payload for one analysis record.
// Returns the store's *NotFoundError when the identity is unknown.
func (a *Aggregator) Insights(ctx context.Context, id uuid.UUID) (*CVInsights, error) {
	rec, err := a.store.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CVInsights{
		CVID:         rec.ID.String(),
		AnalysisDate: rec.CreatedAt,
		ProcessingMetrics: ProcessingMetrics{
			ProcessingTime: rec.ProcessingTime,
			FileSize:       rec.FileSize,
			Status:         rec.ProcessingStatus,
		},
		ProfileSummary:         profileSummary(rec),
		SkillAnalysis:          skillAnalysis(rec),
		ExperienceAnalysis:     experienceAnalysis(rec),
		CareerRecommendations:  recommendationSummary(rec),
		MarketInsights:         marketInsights(),
		ImprovementSuggestions: improvementSuggestions(rec),
	}, nil
}

func profileSummary(rec *types.AnalysisRecord) ProfileSummary {
	profile := rec.ExtractedProfile
	return ProfileSummary{
		TotalExperienceYears: numberField(profile, "total_experience_years"),
		EducationLevel:       listLen(profile, "education"),
		CertificationsCount:  listLen(profile, "certifications"),
		LanguagesCount:       listLen(profile, "languages"),
		KeyAchievementsCount: listLen(profile, "key_achievements"),
	}
}

func skillAnalysis(rec *types.AnalysisRecord) SkillAnalysis {
	var categories map[string]any
	if rec.ExtractedProfile != nil {
		categories, _ = rec.ExtractedProfile["skills"].(map[string]any)
	}
	return SkillAnalysis{
		TotalSkills:          len(rec.Skills),
		SkillCategories:      categories,
		TechnicalSkillsCount: listLen(categories, "technical"),
		SoftSkillsCount:      listLen(categories, "soft_skills"),
	}
}

func experienceAnalysis(rec *types.AnalysisRecord) ExperienceAnalysis {
	var entries []any
	if rec.ExtractedProfile != nil {
		entries, _ = rec.ExtractedProfile["experience"].([]any)
	}

	totalYears := 0.0
	companies := map[string]struct{}{}
	roles := map[string]struct{}{}

	for _, entry := range entries {
		exp, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if years, ok := exp["years"].(float64); ok {
			totalYears += years
		}
		if company, ok := exp["company"].(string); ok && company != "" {
			companies[company] = struct{}{}
		}
		if position, ok := exp["position"].(string); ok && position != "" {
			roles[position] = struct{}{}
		}
	}

	avgTenure := 0.0
	if len(entries) > 0 {
		avgTenure = totalYears / float64(len(entries))
	}

	return ExperienceAnalysis{
		TotalExperienceYears: totalYears,
		CompaniesCount:       len(companies),
		UniqueRolesCount:     len(roles),
		AverageTenure:        avgTenure,
	}
}

func recommendationSummary(rec *types.AnalysisRecord) CareerRecommendationSummary {
	count := 0
	if rec.Recommendation != nil {
		count = 1
		if alternatives, ok := rec.Recommendation["alternative_roles"].([]any); ok && len(alternatives) > 0 {
			count += len(alternatives)
		}
	}
	return CareerRecommendationSummary{
		PrimaryRole:          rec.PrimaryRole(),
		ConfidenceScore:      rec.ConfidenceScore(),
		RecommendationsCount: count,
	}
}

// marketInsights is a static block until a live market data feed exists
func marketInsights() MarketInsights {
	return MarketInsights{
		MarketDemand:    "High",
		SalaryRange:     SalaryRange{Min: 50000, Max: 80000, Currency: "USD"},
		GrowthPotential: "Strong",
		IndustryTrends:  []string{"Remote work", "AI/ML skills in demand"},
	}
}

func improvementSuggestions(rec *types.AnalysisRecord) []string {
	var suggestions []string

	var categories map[string]any
	if rec.ExtractedProfile != nil {
		categories, _ = rec.ExtractedProfile["skills"].(map[string]any)
	}

	if listLen(categories, "technical") == 0 {
		suggestions = append(suggestions, "Consider adding more technical skills to your profile")
	}
	if listLen(rec.ExtractedProfile, "certifications") == 0 {
		suggestions = append(suggestions, "Professional certifications could strengthen your profile")
	}
	if listLen(rec.ExtractedProfile, "languages") < 2 {
		suggestions = append(suggestions, "Additional language skills could be valuable")
	}
	return suggestions
}

func listLen(obj map[string]any, key string) int {
	if obj == nil {
		return 0
	}
	list, _ := obj[key].([]any)
	return len(list)
}

func numberField(obj map[string]any, key string) float64 {
	if obj == nil {
		return 0
	}
	v, _ := obj[key].(float64)
	return v
}
