package server

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/cv-insight/internal/analytics"
	"github.com/jonathan/cv-insight/internal/config"
	"github.com/jonathan/cv-insight/internal/pipeline"
	"github.com/jonathan/cv-insight/internal/server/ratelimit"
	"github.com/jonathan/cv-insight/internal/store"
	"github.com/jonathan/cv-insight/internal/types"
)

// Pipeline is the analysis surface the server invokes
type Pipeline interface {
	Process(ctx context.Context, documentPath, targetRole, difficultyLevel string) *pipeline.AnalysisResult
	QuickRecommendation(ctx context.Context, cvText string) *pipeline.RecommendationEnvelope
	TargetedQuestions(ctx context.Context, profileText, targetRole, difficultyLevel string, questionCount int) *pipeline.QuestionsEnvelope
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      store.Store
	pipe       Pipeline
	aggregator *analytics.Aggregator
	limiter    *ratelimit.Limiter
	validator  *validator.Validate
	cfg        *config.Config
}

// New creates a new server instance
func New(cfg *config.Config, st store.Store, pipe Pipeline) *Server {
	s := &Server{
		store:      st,
		pipe:       pipe,
		aggregator: analytics.New(st),
		limiter:    ratelimit.New(ratelimit.DefaultRules(), 0),
		validator:  validator.New(),
		cfg:        cfg,
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for pipeline runs
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /recommend", s.handleRecommend)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)

	mux.HandleFunc("GET /dashboard/overview", s.handleDashboardOverview)
	mux.HandleFunc("GET /dashboard/cv-insights/{id}", s.handleCVInsights)
	mux.HandleFunc("GET /dashboard/skills-analytics", s.handleSkillsAnalytics)
	mux.HandleFunc("GET /dashboard/career-analytics", s.handleCareerAnalytics)
	mux.HandleFunc("GET /dashboard/trends/skills", s.handleSkillTrends)
	mux.HandleFunc("GET /dashboard/trends/careers", s.handleCareerTrends)
	mux.HandleFunc("GET /dashboard/metrics/performance", s.handlePerformanceMetrics)
	mux.HandleFunc("GET /dashboard/export", s.handleExport)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRateLimit(s.withLogging(s.withMetrics(s.withCORS(mux))))
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withMetrics records one response_time sample per request
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		sample := &types.MetricSample{
			ID:         uuid.New(),
			Name:       "response_time",
			Value:      float64(time.Since(start).Milliseconds()),
			Unit:       "ms",
			Endpoint:   r.URL.Path,
			RecordedAt: time.Now(),
		}
		if err := s.store.InsertMetric(r.Context(), sample); err != nil {
			log.Printf("failed to record metric for %s: %v", r.URL.Path, err)
		}
	})
}

// withRateLimit rejects requests over the per-client budget
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := clientAddr(r)
		allowed, retryAfter := s.limiter.Allow(clientID, r.URL.Path)
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// envelope is the response shape shared by every endpoint
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// jsonResponse writes a success envelope
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data, Message: message}); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes a failure envelope
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
