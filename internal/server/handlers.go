package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/cv-insight/internal/pipeline"
	"github.com/jonathan/cv-insight/internal/types"
)

// handleAnalyze accepts a multipart CV upload, runs the full pipeline, and
// persists the outcome as an analysis record.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing 'file' upload field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.typeAllowed(ext) {
		s.errorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file type %s, allowed: %s", ext, strings.Join(s.cfg.AllowedTypes, ", ")))
		return
	}

	userID, err := optionalUserID(r.FormValue("user_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	// Stage the upload in a temp file the extractor can read
	tmp, err := os.CreateTemp("", "cv-upload-*"+ext)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	defer os.Remove(tmp.Name())
	size, err := tmp.ReadFrom(file)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}

	result := s.pipe.Process(r.Context(), tmp.Name(), r.FormValue("target_role"), r.FormValue("difficulty_level"))

	rec := recordFromResult(result, header.Filename, size, ext, userID)
	if err := s.store.InsertAnalysis(r.Context(), rec); err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to persist analysis")
		return
	}

	message := "CV analyzed successfully"
	if result.ProcessingInfo.Status != types.StatusCompleted {
		message = "CV analysis failed"
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analysis_id": rec.ID,
		"result":      result,
	}, message)
}

// recordFromResult maps a pipeline envelope onto a persistable record
func recordFromResult(result *pipeline.AnalysisResult, filename string, size int64, ext string, userID *uuid.UUID) *types.AnalysisRecord {
	rec := &types.AnalysisRecord{
		ID:               uuid.New(),
		UserID:           userID,
		OriginalFilename: filename,
		FileSize:         size,
		FileType:         strings.TrimPrefix(ext, "."),
		RawText:          result.RawText,
		ProcessingStatus: result.ProcessingInfo.Status,
		ErrorMessage:     result.Error,
		CreatedAt:        time.Now(),
	}
	duration := result.ProcessingInfo.ProcessingTime
	rec.ProcessingTime = &duration

	if profile, ok := result.ProfileAnalysis.(map[string]any); ok {
		rec.ExtractedProfile = profile
	}
	if career, ok := result.CareerRecommendations.(map[string]any); ok {
		rec.Recommendation = career
	}
	if questions, ok := result.InterviewQuestions.(map[string]any); ok {
		rec.QuestionSet = questions
	}

	for _, skills := range rec.SkillCategories() {
		for _, skill := range skills {
			rec.Skills = append(rec.Skills, strings.ToLower(skill))
		}
	}
	return rec
}

func (s *Server) typeAllowed(ext string) bool {
	for _, allowed := range s.cfg.AllowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

func optionalUserID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// recommendRequest is the POST /recommend body
type recommendRequest struct {
	CVText string `json:"cv_text" validate:"required,min=10"`
}

// handleRecommend runs the quick profile+recommendation path over raw text
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	env := s.pipe.QuickRecommendation(r.Context(), req.CVText)
	if !env.Success {
		s.jsonResponse(w, http.StatusOK, env, "recommendation failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, env, "recommendation generated")
}

// sessionRequest is the POST /sessions body
type sessionRequest struct {
	AnalysisID      string `json:"analysis_id" validate:"required,uuid4"`
	UserID          string `json:"user_id" validate:"omitempty,uuid4"`
	TargetRole      string `json:"target_role"`
	DifficultyLevel string `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	QuestionCount   int    `json:"question_count" validate:"omitempty,min=1,max=30"`
}

// handleCreateSession generates a targeted question set for a stored
// analysis and records it as an interview session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	analysisID, err := uuid.Parse(req.AnalysisID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid analysis_id")
		return
	}
	userID, err := optionalUserID(req.UserID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	rec, err := s.store.GetAnalysis(r.Context(), analysisID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	env := s.pipe.TargetedQuestions(r.Context(), profileText(rec), req.TargetRole, req.DifficultyLevel, req.QuestionCount)
	if !env.Success {
		s.errorResponse(w, http.StatusBadGateway, env.Error)
		return
	}

	session := sessionFromEnvelope(env, analysisID, userID)
	if err := s.store.InsertSession(r.Context(), session); err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to persist session")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"session_id": session.ID,
		"result":     env,
	}, "interview session created")
}

// profileText returns the stage-4 input for a stored record: the structured
// profile when one exists, the raw CV text otherwise.
func profileText(rec *types.AnalysisRecord) string {
	if rec.ExtractedProfile != nil {
		if data, err := json.Marshal(rec.ExtractedProfile); err == nil {
			return string(data)
		}
	}
	return rec.RawText
}

func sessionFromEnvelope(env *pipeline.QuestionsEnvelope, analysisID uuid.UUID, userID *uuid.UUID) *types.InterviewSession {
	session := &types.InterviewSession{
		ID:               uuid.New(),
		UserID:           userID,
		AnalysisID:       analysisID,
		TargetRole:       env.TargetRole,
		DifficultyLevel:  env.DifficultyLevel,
		CompletionStatus: types.SessionDraft,
		CreatedAt:        time.Now(),
	}
	generationTime := env.ProcessingTime
	session.GenerationTime = &generationTime

	if questionSet, ok := env.Questions.(map[string]any); ok {
		session.Questions = questionSet
		if n, ok := questionSet["total_questions"].(float64); ok {
			session.TotalQuestions = int(n)
		}
		if d, ok := questionSet["estimated_duration"].(float64); ok {
			session.EstimatedDuration = int(d)
		}
	}
	return session
}

// extractValidationErrors extracts readable messages from validator errors
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}
