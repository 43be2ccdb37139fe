// Package types defines the shared data model for CV analysis records,
// interview sessions, and metric samples.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Processing status values for an AnalysisRecord
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Completion status values for an InterviewSession
const (
	SessionDraft     = "draft"
	SessionCompleted = "completed"
)

// AnalysisRecord is the persisted outcome of one pipeline run.
// The three structured payloads are stored as decoded JSON objects; any of
// them may be nil when the producing stage failed or degraded to raw text.
type AnalysisRecord struct {
	ID     uuid.UUID  `json:"id"`
	UserID *uuid.UUID `json:"user_id,omitempty"`

	// Source file metadata
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	FileType         string `json:"file_type"`

	// Extracted content
	RawText string `json:"raw_text"`

	// Structured stage outputs
	ExtractedProfile map[string]any `json:"extracted_profile,omitempty"`
	Recommendation   map[string]any `json:"recommendation,omitempty"`
	QuestionSet      map[string]any `json:"question_set,omitempty"`

	// Skills is the flattened, lowercased skill list derived from the
	// profile's skill categories at persistence time. The aggregator's
	// frequency and trend computations read this column directly.
	Skills []string `json:"skills,omitempty"`

	// Processing metadata
	ProcessingStatus string   `json:"processing_status"`
	ProcessingTime   *float64 `json:"processing_time,omitempty"`
	ErrorMessage     string   `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PrimaryRole returns the recommended primary role, or "" when the
// recommendation is absent or malformed.
func (r *AnalysisRecord) PrimaryRole() string {
	if r.Recommendation == nil {
		return ""
	}
	role, _ := r.Recommendation["primary_role"].(string)
	return role
}

// ConfidenceScore returns the recommendation confidence, or 0 when absent.
func (r *AnalysisRecord) ConfidenceScore() float64 {
	if r.Recommendation == nil {
		return 0
	}
	switch v := r.Recommendation["confidence_score"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// SkillCategories returns the profile's category -> skill-list mapping.
// Malformed entries are dropped rather than surfaced.
func (r *AnalysisRecord) SkillCategories() map[string][]string {
	out := map[string][]string{}
	if r.ExtractedProfile == nil {
		return out
	}
	skills, ok := r.ExtractedProfile["skills"].(map[string]any)
	if !ok {
		return out
	}
	for category, v := range skills {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			if s, ok := item.(string); ok {
				out[category] = append(out[category], s)
			}
		}
	}
	return out
}

// InterviewSession tracks one generated question set against an analysis.
// It references its AnalysisRecord by identity and does not own it.
type InterviewSession struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	AnalysisID uuid.UUID  `json:"analysis_id"`

	TargetRole      string `json:"target_role,omitempty"`
	DifficultyLevel string `json:"difficulty_level"`

	Questions         map[string]any `json:"questions,omitempty"`
	TotalQuestions    int            `json:"total_questions"`
	EstimatedDuration int            `json:"estimated_duration"` // minutes

	CompletionStatus string   `json:"completion_status"`
	GenerationTime   *float64 `json:"generation_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// MetricSample is a write-once numeric measurement with optional context.
type MetricSample struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Value float64   `json:"value"`
	Unit  string    `json:"unit,omitempty"`

	Endpoint  string     `json:"endpoint,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	SessionID string     `json:"session_id,omitempty"`

	RecordedAt time.Time `json:"recorded_at"`
}
