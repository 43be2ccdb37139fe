package analytics

import "time"

// Period describes the time window an aggregation covers
type Period struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`
}

// CVStatistics summarizes pipeline run outcomes in a window
type CVStatistics struct {
	TotalCVsProcessed     int            `json:"total_cvs_processed"`
	SuccessfulAnalyses    int            `json:"successful_analyses"`
	SuccessRate           float64        `json:"success_rate"`
	AverageProcessingTime float64        `json:"average_processing_time"`
	FileTypes             map[string]int `json:"file_types"`
}

// InterviewStatistics summarizes interview sessions in a window
type InterviewStatistics struct {
	TotalInterviewSessions     int            `json:"total_interview_sessions"`
	AverageQuestionsPerSession float64        `json:"average_questions_per_session"`
	AverageEstimatedDuration   float64        `json:"average_estimated_duration"`
	DifficultyDistribution     map[string]int `json:"difficulty_distribution"`
	CompletionRate             float64        `json:"completion_rate"`
}

// SkillTrends holds monthly skill histograms plus the two-bucket comparison
type SkillTrends struct {
	MonthlyTrends map[string]map[string]int `json:"monthly_trends"`
	TrendingUp    []string                  `json:"trending_up"`
	TrendingDown  []string                  `json:"trending_down"`
}

// Truncate caps the trending lists at limit entries. A non-positive limit
// leaves the payload unchanged.
func (t *SkillTrends) Truncate(limit int) {
	if limit <= 0 {
		return
	}
	if len(t.TrendingUp) > limit {
		t.TrendingUp = t.TrendingUp[:limit]
	}
	if len(t.TrendingDown) > limit {
		t.TrendingDown = t.TrendingDown[:limit]
	}
}

// CareerTrends holds monthly role histograms plus popularity rankings
type CareerTrends struct {
	MonthlyRoleTrends map[string]map[string]int `json:"monthly_role_trends"`
	PopularRoles      []RankedRole              `json:"popular_roles"`
	EmergingRoles     []string                  `json:"emerging_roles"`
}

// Truncate caps the ranking lists at limit entries. A non-positive limit
// leaves the payload unchanged.
func (t *CareerTrends) Truncate(limit int) {
	if limit <= 0 {
		return
	}
	if len(t.PopularRoles) > limit {
		t.PopularRoles = t.PopularRoles[:limit]
	}
	if len(t.EmergingRoles) > limit {
		t.EmergingRoles = t.EmergingRoles[:limit]
	}
}

// MetricSummary is the per-metric-name statistics block
type MetricSummary struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
}

// DashboardSummary is the top-line block surfaced to operators
type DashboardSummary struct {
	TotalProcessed    int     `json:"total_processed"`
	SuccessRate       float64 `json:"success_rate"`
	TotalInterviews   int     `json:"total_interviews"`
	AvgProcessingTime float64 `json:"avg_processing_time"`
	HealthScore       float64 `json:"health_score"`
}

// DashboardData is the combined overview payload
type DashboardData struct {
	Period             Period                   `json:"period"`
	CVAnalytics        CVStatistics             `json:"cv_analytics"`
	InterviewAnalytics InterviewStatistics      `json:"interview_analytics"`
	SkillTrends        SkillTrends              `json:"skill_trends"`
	CareerTrends       CareerTrends             `json:"career_trends"`
	PerformanceMetrics map[string]MetricSummary `json:"performance_metrics"`
	Summary            DashboardSummary         `json:"summary"`
}

// RankedSkill is one row of a skill frequency ranking
type RankedSkill struct {
	Skill     string `json:"skill"`
	Frequency int    `json:"frequency"`
}

// RankedRole is one row of a role frequency ranking
type RankedRole struct {
	Role      string `json:"role"`
	Frequency int    `json:"frequency"`
}

// SkillAnalytics is the global (or per-user) skill frequency payload
type SkillAnalytics struct {
	TotalUniqueSkills  int                       `json:"total_unique_skills"`
	TotalSkillMentions int                       `json:"total_skill_mentions"`
	TopSkills          []RankedSkill             `json:"top_skills"`
	SkillCategories    map[string]map[string]int `json:"skill_categories"`
	SkillDistribution  map[string]float64        `json:"skill_distribution"`
	SkillGaps          []string                  `json:"skill_gaps"`
}

// CareerAnalytics is the global (or per-user) recommendation payload
type CareerAnalytics struct {
	TotalRecommendations   int            `json:"total_recommendations"`
	UniqueRoles            int            `json:"unique_roles"`
	AverageConfidenceScore float64        `json:"average_confidence_score"`
	TopRecommendedRoles    []RankedRole   `json:"top_recommended_roles"`
	ConfidenceDistribution map[string]int `json:"confidence_distribution"`
}

// ProcessingMetrics is the per-record processing block of a CV insight
type ProcessingMetrics struct {
	ProcessingTime *float64 `json:"processing_time"`
	FileSize       int64    `json:"file_size"`
	Status         string   `json:"status"`
}

// ProfileSummary counts the structured sections of one extracted profile
type ProfileSummary struct {
	TotalExperienceYears float64 `json:"total_experience_years"`
	EducationLevel       int     `json:"education_level"`
	CertificationsCount  int     `json:"certifications_count"`
	LanguagesCount       int     `json:"languages_count"`
	KeyAchievementsCount int     `json:"key_achievements_count"`
}

// SkillAnalysis breaks down one record's skills
type SkillAnalysis struct {
	TotalSkills          int            `json:"total_skills"`
	SkillCategories      map[string]any `json:"skill_categories"`
	TechnicalSkillsCount int            `json:"technical_skills_count"`
	SoftSkillsCount      int            `json:"soft_skills_count"`
}

// ExperienceAnalysis breaks down one record's work history
type ExperienceAnalysis struct {
	TotalExperienceYears float64 `json:"total_experience_years"`
	CompaniesCount       int     `json:"companies_count"`
	UniqueRolesCount     int     `json:"unique_roles_count"`
	AverageTenure        float64 `json:"average_tenure"`
}

// CareerRecommendationSummary condenses one record's stored recommendation
type CareerRecommendationSummary struct {
	PrimaryRole          string  `json:"primary_role"`
	ConfidenceScore      float64 `json:"confidence_score"`
	RecommendationsCount int     `json:"recommendations_count"`
}

// SalaryRange is the market-insight salary block
type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// MarketInsights is a static placeholder until a live market feed exists
type MarketInsights struct {
	MarketDemand    string      `json:"market_demand"`
	SalaryRange     SalaryRange `json:"salary_range"`
	GrowthPotential string      `json:"growth_potential"`
	IndustryTrends  []string    `json:"industry_trends"`
}

// CVInsights is the consolidated per-record insight payload
type CVInsights struct {
	CVID                   string                      `json:"cv_id"`
	AnalysisDate           time.Time                   `json:"analysis_date"`
	ProcessingMetrics      ProcessingMetrics           `json:"processing_metrics"`
	ProfileSummary         ProfileSummary              `json:"profile_summary"`
	SkillAnalysis          SkillAnalysis               `json:"skill_analysis"`
	ExperienceAnalysis     ExperienceAnalysis          `json:"experience_analysis"`
	CareerRecommendations  CareerRecommendationSummary `json:"career_recommendations"`
	MarketInsights         MarketInsights              `json:"market_insights"`
	ImprovementSuggestions []string                    `json:"improvement_suggestions"`
}
