// Package store provides durable storage for analysis records, interview
// sessions, and metric samples.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-insight/internal/types"
)

// NotFoundError indicates a referenced record identity does not exist
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Filter bounds queries to a creation-time window and optional user.
// A zero Since means no lower bound.
type Filter struct {
	Since  time.Time
	UserID *uuid.UUID
}

// Matches reports whether a record's creation time and owner pass the filter
func (f Filter) Matches(createdAt time.Time, userID *uuid.UUID) bool {
	if !f.Since.IsZero() && createdAt.Before(f.Since) {
		return false
	}
	if f.UserID != nil {
		if userID == nil || *userID != *f.UserID {
			return false
		}
	}
	return true
}

// Store is the persistence boundary shared by the pipeline's caller and the
// analytics aggregator. The aggregator uses only the read side.
type Store interface {
	InsertAnalysis(ctx context.Context, rec *types.AnalysisRecord) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error)
	QueryAnalyses(ctx context.Context, f Filter) ([]*types.AnalysisRecord, error)

	InsertSession(ctx context.Context, s *types.InterviewSession) error
	QuerySessions(ctx context.Context, f Filter) ([]*types.InterviewSession, error)

	InsertMetric(ctx context.Context, m *types.MetricSample) error
	QueryMetrics(ctx context.Context, since time.Time) ([]*types.MetricSample, error)
}
