package pipeline

import "time"

// ProcessingInfo describes the outcome and timing of one pipeline run
type ProcessingInfo struct {
	FilePath       string    `json:"file_path,omitempty"`
	Status         string    `json:"status"`
	ProcessingTime float64   `json:"processing_time"` // seconds
	Timestamp      time.Time `json:"timestamp"`
	Error          string    `json:"error,omitempty"`
}

// QuickAnalytics holds the derived metrics computed from the in-memory
// profile and recommendation objects at the end of a run.
type QuickAnalytics struct {
	ProfileCompleteness  float64 `json:"profile_completeness"`
	SkillDiversity       int     `json:"skill_diversity"`
	ExperienceLevel      string  `json:"experience_level"`
	CareerConfidence     float64 `json:"career_confidence"`
	RecommendationsCount int     `json:"recommendations_count"`
}

// AnalysisResult is the envelope returned by a full pipeline run. The three
// stage outputs hold either a parsed object or the degraded raw text.
type AnalysisResult struct {
	ProcessingInfo        ProcessingInfo  `json:"processing_info"`
	RawText               string          `json:"raw_text,omitempty"`
	ProfileAnalysis       any             `json:"profile_analysis,omitempty"`
	CareerRecommendations any             `json:"career_recommendations,omitempty"`
	InterviewQuestions    any             `json:"interview_questions,omitempty"`
	Analytics             *QuickAnalytics `json:"analytics,omitempty"`
	Error                 string          `json:"error,omitempty"`
}

// RecommendationEnvelope is the result of a quick recommendation run
type RecommendationEnvelope struct {
	Success              bool    `json:"success"`
	ProcessingTime       float64 `json:"processing_time,omitempty"`
	ProfileSummary       any     `json:"profile_summary,omitempty"`
	CareerRecommendation any     `json:"career_recommendation,omitempty"`
	Error                string  `json:"error,omitempty"`
}

// QuestionsEnvelope is the result of a targeted question generation run
type QuestionsEnvelope struct {
	Success         bool    `json:"success"`
	ProcessingTime  float64 `json:"processing_time,omitempty"`
	TargetRole      string  `json:"target_role,omitempty"`
	DifficultyLevel string  `json:"difficulty_level,omitempty"`
	Questions       any     `json:"questions,omitempty"`
	Error           string  `json:"error,omitempty"`
}
