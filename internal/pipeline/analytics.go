package pipeline

import "math"

// Experience level thresholds in years
const (
	juniorYears = 2
	midYears    = 5
	seniorYears = 10
)

// ComputeQuickAnalytics derives the run-level metrics from the parsed
// profile and recommendation objects. Either argument may be nil when its
// stage degraded to raw text.
func ComputeQuickAnalytics(profile, career map[string]any) *QuickAnalytics {
	return &QuickAnalytics{
		ProfileCompleteness:  profileCompleteness(profile),
		SkillDiversity:       skillDiversity(profile),
		ExperienceLevel:      experienceLevel(profile),
		CareerConfidence:     careerConfidence(career),
		RecommendationsCount: recommendationsCount(career),
	}
}

// profileCompleteness is the percentage of the four core profile sections
// that are populated, rounded to one decimal.
func profileCompleteness(profile map[string]any) float64 {
	if profile == nil {
		return 0.0
	}

	required := []string{"personal_info", "skills", "experience", "education"}
	present := 0
	for _, field := range required {
		if nonEmpty(profile[field]) {
			present++
		}
	}

	return round1(float64(present) / float64(len(required)) * 100)
}

// skillDiversity sums the lengths of every skill-category list
func skillDiversity(profile map[string]any) int {
	if profile == nil {
		return 0
	}

	skills, ok := profile["skills"].(map[string]any)
	if !ok {
		return 0
	}

	total := 0
	for _, v := range skills {
		if list, ok := v.([]any); ok {
			total += len(list)
		}
	}
	return total
}

// experienceLevel buckets total experience years
func experienceLevel(profile map[string]any) string {
	if profile == nil {
		return "unknown"
	}

	years, _ := profile["total_experience_years"].(float64)
	switch {
	case years < juniorYears:
		return "entry"
	case years < midYears:
		return "junior"
	case years < seniorYears:
		return "mid"
	default:
		return "senior"
	}
}

// careerConfidence extracts the recommendation confidence score
func careerConfidence(career map[string]any) float64 {
	if career == nil {
		return 0.0
	}
	score, _ := career["confidence_score"].(float64)
	return score
}

// recommendationsCount counts the primary role plus any alternatives
func recommendationsCount(career map[string]any) int {
	if career == nil {
		return 0
	}
	if alternatives, ok := career["alternative_roles"].([]any); ok && len(alternatives) > 0 {
		return 1 + len(alternatives)
	}
	return 1
}

// nonEmpty reports whether a decoded JSON value carries content
func nonEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
