package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

const defaultWindowDays = 30

func parseDays(r *http.Request) int {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultWindowDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return defaultWindowDays
	}
	return days
}

// parseLimit returns 0 (no cap) when the limit parameter is absent or invalid
func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		return 0
	}
	return limit
}

func parseUserID(r *http.Request) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// handleDashboardOverview serves the combined dashboard payload
func (s *Server) handleDashboardOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	data, err := s.aggregator.Dashboard(r.Context(), parseDays(r), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, data, "dashboard data generated")
}

// handleCVInsights serves the consolidated insight payload for one record
func (s *Server) handleCVInsights(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid analysis id")
		return
	}

	insights, err := s.aggregator.Insights(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, insights, "insights generated")
}

func (s *Server) handleSkillsAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	data, err := s.aggregator.Skills(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, data, "skill analytics generated")
}

func (s *Server) handleCareerAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	data, err := s.aggregator.Careers(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, data, "career analytics generated")
}

func (s *Server) handleSkillTrends(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	data, err := s.aggregator.SkillTrendData(r.Context(), parseDays(r), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	data.Truncate(parseLimit(r))
	s.jsonResponse(w, http.StatusOK, data, "skill trends generated")
}

func (s *Server) handleCareerTrends(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	data, err := s.aggregator.CareerTrendData(r.Context(), parseDays(r), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	data.Truncate(parseLimit(r))
	s.jsonResponse(w, http.StatusOK, data, "career trends generated")
}

func (s *Server) handlePerformanceMetrics(w http.ResponseWriter, r *http.Request) {
	data, err := s.aggregator.Performance(r.Context(), parseDays(r))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, data, "performance metrics generated")
}

// handleExport bundles the dashboard, skill, and career payloads into one
// downloadable document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	days := parseDays(r)

	dashboard, err := s.aggregator.Dashboard(r.Context(), days, userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	skills, err := s.aggregator.Skills(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	careers, err := s.aggregator.Careers(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="cv-insight-export.json"`)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"dashboard":        dashboard,
		"skill_analytics":  skills,
		"career_analytics": careers,
	}, "analytics export generated")
}

// handleHealth reports service health with the operator-facing score band
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data, err := s.aggregator.Dashboard(r.Context(), defaultWindowDays, nil)
	if err != nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{"status": "degraded"}, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"health_score": data.Summary.HealthScore,
		"health_band":  healthBand(data.Summary.HealthScore),
	}, "")
}

func healthBand(score float64) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	case score >= 50:
		return "fair"
	default:
		return "poor"
	}
}
