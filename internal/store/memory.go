package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-insight/internal/types"
)

// MemoryStore is an in-memory Store used by tests and by the CLI when no
// database is configured. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[uuid.UUID]*types.AnalysisRecord
	sessions map[uuid.UUID]*types.InterviewSession
	metrics  []*types.MetricSample
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		analyses: map[uuid.UUID]*types.AnalysisRecord{},
		sessions: map[uuid.UUID]*types.InterviewSession{},
	}
}

// InsertAnalysis stores a copy of the record
func (s *MemoryStore) InsertAnalysis(_ context.Context, rec *types.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.analyses[rec.ID] = &cp
	return nil
}

// GetAnalysis retrieves one record by ID
func (s *MemoryStore) GetAnalysis(_ context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.analyses[id]
	if !ok {
		return nil, &NotFoundError{Kind: "analysis", ID: id}
	}
	cp := *rec
	return &cp, nil
}

// QueryAnalyses retrieves records matching the filter, oldest first
func (s *MemoryStore) QueryAnalyses(_ context.Context, f Filter) ([]*types.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*types.AnalysisRecord
	for _, rec := range s.analyses {
		if !f.Matches(rec.CreatedAt, rec.UserID) {
			continue
		}
		cp := *rec
		records = append(records, &cp)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// InsertSession stores a copy of the session
func (s *MemoryStore) InsertSession(_ context.Context, sess *types.InterviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

// QuerySessions retrieves sessions matching the filter, oldest first
func (s *MemoryStore) QuerySessions(_ context.Context, f Filter) ([]*types.InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sessions []*types.InterviewSession
	for _, sess := range s.sessions {
		if !f.Matches(sess.CreatedAt, sess.UserID) {
			continue
		}
		cp := *sess
		sessions = append(sessions, &cp)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID.String() < sessions[j].ID.String()
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// InsertMetric stores a copy of the sample
func (s *MemoryStore) InsertMetric(_ context.Context, m *types.MetricSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.metrics = append(s.metrics, &cp)
	return nil
}

// QueryMetrics retrieves samples recorded at or after the given time, oldest first
func (s *MemoryStore) QueryMetrics(_ context.Context, since time.Time) ([]*types.MetricSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var samples []*types.MetricSample
	for _, m := range s.metrics {
		if m.RecordedAt.Before(since) {
			continue
		}
		cp := *m
		samples = append(samples, &cp)
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].RecordedAt.Before(samples[j].RecordedAt)
	})
	return samples, nil
}
