package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/cv-insight/internal/types"
)

// schema creates the tables the store reads and writes. Idempotent so it can
// run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS cv_analyses (
	id UUID PRIMARY KEY,
	user_id UUID,
	original_filename TEXT NOT NULL,
	file_size BIGINT NOT NULL DEFAULT 0,
	file_type TEXT NOT NULL DEFAULT '',
	raw_text TEXT NOT NULL DEFAULT '',
	extracted_profile JSONB,
	recommendation JSONB,
	question_set JSONB,
	skills TEXT[] NOT NULL DEFAULT '{}',
	processing_status TEXT NOT NULL,
	processing_time DOUBLE PRECISION,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_cv_analyses_created_at ON cv_analyses (created_at);

CREATE TABLE IF NOT EXISTS interview_sessions (
	id UUID PRIMARY KEY,
	user_id UUID,
	analysis_id UUID NOT NULL REFERENCES cv_analyses(id) ON DELETE CASCADE,
	target_role TEXT NOT NULL DEFAULT '',
	difficulty_level TEXT NOT NULL DEFAULT 'intermediate',
	questions JSONB,
	total_questions INT NOT NULL DEFAULT 0,
	estimated_duration INT NOT NULL DEFAULT 0,
	completion_status TEXT NOT NULL DEFAULT 'draft',
	generation_time DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS metric_samples (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	unit TEXT NOT NULL DEFAULT '',
	endpoint TEXT NOT NULL DEFAULT '',
	user_id UUID,
	session_id TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_metric_samples_recorded_at ON metric_samples (recorded_at);
`

// PostgresStore wraps a PostgreSQL connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and ensures the schema exists
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func marshalJSONB(v map[string]any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// InsertAnalysis stores one completed or failed pipeline run
func (s *PostgresStore) InsertAnalysis(ctx context.Context, rec *types.AnalysisRecord) error {
	profile, err := marshalJSONB(rec.ExtractedProfile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	recommendation, err := marshalJSONB(rec.Recommendation)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}
	questionSet, err := marshalJSONB(rec.QuestionSet)
	if err != nil {
		return fmt.Errorf("failed to marshal question set: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO cv_analyses
		 (id, user_id, original_filename, file_size, file_type, raw_text,
		  extracted_profile, recommendation, question_set, skills,
		  processing_status, processing_time, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rec.ID, rec.UserID, rec.OriginalFilename, rec.FileSize, rec.FileType, rec.RawText,
		profile, recommendation, questionSet, rec.Skills,
		rec.ProcessingStatus, rec.ProcessingTime, rec.ErrorMessage, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves one analysis record by ID
func (s *PostgresStore) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.AnalysisRecord, error) {
	var rec types.AnalysisRecord
	var profile, recommendation, questionSet []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, original_filename, file_size, file_type, raw_text,
		        extracted_profile, recommendation, question_set, skills,
		        processing_status, processing_time, error_message, created_at
		 FROM cv_analyses WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.UserID, &rec.OriginalFilename, &rec.FileSize, &rec.FileType, &rec.RawText,
		&profile, &recommendation, &questionSet, &rec.Skills,
		&rec.ProcessingStatus, &rec.ProcessingTime, &rec.ErrorMessage, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &NotFoundError{Kind: "analysis", ID: id}
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := unmarshalJSONB(profile, &rec.ExtractedProfile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if err := unmarshalJSONB(recommendation, &rec.Recommendation); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation: %w", err)
	}
	if err := unmarshalJSONB(questionSet, &rec.QuestionSet); err != nil {
		return nil, fmt.Errorf("failed to decode question set: %w", err)
	}
	return &rec, nil
}

func unmarshalJSONB(data []byte, dst *map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// QueryAnalyses retrieves records matching the filter, oldest first
func (s *PostgresStore) QueryAnalyses(ctx context.Context, f Filter) ([]*types.AnalysisRecord, error) {
	query := `SELECT id, user_id, original_filename, file_size, file_type, raw_text,
	                 extracted_profile, recommendation, question_set, skills,
	                 processing_status, processing_time, error_message, created_at
	          FROM cv_analyses WHERE 1=1`
	args := []any{}
	argNum := 1

	if !f.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argNum)
		args = append(args, f.Since)
		argNum++
	}
	if f.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *f.UserID)
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []*types.AnalysisRecord
	for rows.Next() {
		var rec types.AnalysisRecord
		var profile, recommendation, questionSet []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.OriginalFilename, &rec.FileSize, &rec.FileType, &rec.RawText,
			&profile, &recommendation, &questionSet, &rec.Skills,
			&rec.ProcessingStatus, &rec.ProcessingTime, &rec.ErrorMessage, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if err := unmarshalJSONB(profile, &rec.ExtractedProfile); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		if err := unmarshalJSONB(recommendation, &rec.Recommendation); err != nil {
			return nil, fmt.Errorf("failed to decode recommendation: %w", err)
		}
		if err := unmarshalJSONB(questionSet, &rec.QuestionSet); err != nil {
			return nil, fmt.Errorf("failed to decode question set: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

// InsertSession stores one interview session
func (s *PostgresStore) InsertSession(ctx context.Context, sess *types.InterviewSession) error {
	questions, err := marshalJSONB(sess.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO interview_sessions
		 (id, user_id, analysis_id, target_role, difficulty_level, questions,
		  total_questions, estimated_duration, completion_status, generation_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sess.ID, sess.UserID, sess.AnalysisID, sess.TargetRole, sess.DifficultyLevel, questions,
		sess.TotalQuestions, sess.EstimatedDuration, sess.CompletionStatus, sess.GenerationTime, sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// QuerySessions retrieves sessions matching the filter, oldest first
func (s *PostgresStore) QuerySessions(ctx context.Context, f Filter) ([]*types.InterviewSession, error) {
	query := `SELECT id, user_id, analysis_id, target_role, difficulty_level, questions,
	                 total_questions, estimated_duration, completion_status, generation_time, created_at
	          FROM interview_sessions WHERE 1=1`
	args := []any{}
	argNum := 1

	if !f.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argNum)
		args = append(args, f.Since)
		argNum++
	}
	if f.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *f.UserID)
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*types.InterviewSession
	for rows.Next() {
		var sess types.InterviewSession
		var questions []byte
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.AnalysisID, &sess.TargetRole, &sess.DifficultyLevel, &questions,
			&sess.TotalQuestions, &sess.EstimatedDuration, &sess.CompletionStatus, &sess.GenerationTime, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if err := unmarshalJSONB(questions, &sess.Questions); err != nil {
			return nil, fmt.Errorf("failed to decode questions: %w", err)
		}
		sessions = append(sessions, &sess)
	}
	return sessions, nil
}

// InsertMetric stores one metric sample
func (s *PostgresStore) InsertMetric(ctx context.Context, m *types.MetricSample) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO metric_samples
		 (id, name, value, unit, endpoint, user_id, session_id, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.Name, m.Value, m.Unit, m.Endpoint, m.UserID, m.SessionID, m.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert metric: %w", err)
	}
	return nil
}

// QueryMetrics retrieves samples recorded at or after the given time, oldest first
func (s *PostgresStore) QueryMetrics(ctx context.Context, since time.Time) ([]*types.MetricSample, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, value, unit, endpoint, user_id, session_id, recorded_at
		 FROM metric_samples WHERE recorded_at >= $1 ORDER BY recorded_at ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	var samples []*types.MetricSample
	for rows.Next() {
		var m types.MetricSample
		if err := rows.Scan(&m.ID, &m.Name, &m.Value, &m.Unit, &m.Endpoint, &m.UserID, &m.SessionID, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		samples = append(samples, &m)
	}
	return samples, nil
}
