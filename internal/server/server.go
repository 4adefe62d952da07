// Package server provides the HTTP REST API for fit scoring.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/recruiting-platform/internal/db"
	"github.com/jonathan/recruiting-platform/internal/fitscore"
	"github.com/jonathan/recruiting-platform/internal/observability"
	"github.com/jonathan/recruiting-platform/internal/parsing"
	"github.com/jonathan/recruiting-platform/internal/ranking"
	"github.com/jonathan/recruiting-platform/internal/server/ratelimit"
	"github.com/jonathan/recruiting-platform/internal/types"
)

// OrganizationHeader carries the tenant of every persisted request.
const OrganizationHeader = "X-Organization-ID"

// Store is the persistence the server needs. *db.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateOrganization(ctx context.Context, name string) (*db.Organization, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*db.Organization, error)

	CreateJob(ctx context.Context, input *db.JobCreateInput) (*db.Job, error)
	GetJob(ctx context.Context, orgID, jobID uuid.UUID) (*db.Job, error)
	ListJobs(ctx context.Context, orgID uuid.UUID, filters db.ListFilters) ([]db.Job, error)
	DeleteJob(ctx context.Context, orgID, jobID uuid.UUID) error

	CreateCandidate(ctx context.Context, input *db.CandidateCreateInput) (*db.Candidate, error)
	GetCandidate(ctx context.Context, orgID, candidateID uuid.UUID) (*db.Candidate, error)
	ListCandidates(ctx context.Context, orgID uuid.UUID, filters db.ListFilters) ([]db.Candidate, error)
	ListCandidatesByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]db.Candidate, error)

	SaveFitScore(ctx context.Context, orgID, jobID, candidateID uuid.UUID, result *types.FitScoreResult) (*db.Application, error)
	SaveFitScores(ctx context.Context, orgID, jobID uuid.UUID, entries []db.FitScoreEntry) error
	GetFitScore(ctx context.Context, orgID, jobID, candidateID uuid.UUID) (*db.Application, error)
	ListTopCandidates(ctx context.Context, orgID, jobID uuid.UUID, limit int) ([]db.TopCandidate, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	scorer      *fitscore.Scorer
	ranker      *ranking.Ranker
	parser      *parsing.JobParser
	metrics     *observability.Metrics
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	logger      *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	RateLimit    *ratelimit.Config
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics exposes metrics at GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRanker overrides the batch ranker built from the scorer.
func WithRanker(r *ranking.Ranker) Option {
	return func(s *Server) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithJobParser sets the parser used by POST /jobs/parse and job creation.
// Without one, descriptions are parsed by the regex fallback.
func WithJobParser(p *parsing.JobParser) Option {
	return func(s *Server) {
		if p != nil {
			s.parser = p
		}
	}
}

// New creates a new server instance
func New(cfg Config, store Store, scorer *fitscore.Scorer, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("server requires a store")
	}
	if scorer == nil {
		return nil, errors.New("server requires a scorer")
	}

	s := &Server{
		store:    store,
		scorer:   scorer,
		validate: newValidator(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ranker == nil {
		s.ranker = ranking.NewRanker(scorer, ranking.WithLogger(s.logger))
	}
	if s.parser == nil {
		s.parser = parsing.NewJobParser(nil, s.logger)
	}

	s.rateLimiter = ratelimit.NewLimiter(cfg.RateLimit)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("POST /organizations", s.handleCreateOrganization)
	mux.HandleFunc("GET /organizations/{id}", s.handleGetOrganization)

	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("POST /jobs/parse", s.handleParseJob)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("DELETE /jobs/{id}", s.handleDeleteJob)
	mux.HandleFunc("POST /jobs/{id}/rank", s.handleRankCandidates)
	mux.HandleFunc("GET /jobs/{id}/top-candidates", s.handleTopCandidates)

	mux.HandleFunc("POST /candidates", s.handleCreateCandidate)
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)

	mux.HandleFunc("POST /fit-score", s.handleFitScore)
	mux.HandleFunc("POST /score", s.handleScore)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))

	readTimeout, writeTimeout, idleTimeout := cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 120 * time.Second // Batch ranking may wait on many culture judgments
	}
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens for requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+OrganizationHeader)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code. Internal errors are logged and hidden from the client.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
		retryAfter = max(retryAfter, 1)
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.Int("limit", info.Limit),
		zap.Time("reset_at", info.ResetTime),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
