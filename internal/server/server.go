// Package server provides the HTTP REST API for resume evaluation, history and exports.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-evaluator/internal/config"
	"github.com/jonathan/resume-evaluator/internal/evaluation"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/server/middleware"
	"github.com/jonathan/resume-evaluator/internal/server/ratelimit"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// Store persists evaluations and share links. *db.DB implements it.
type Store interface {
	SaveEvaluation(ctx context.Context, e *types.Evaluation) error
	GetEvaluation(ctx context.Context, id uuid.UUID) (*types.Evaluation, error)
	ListEvaluations(ctx context.Context, userID uuid.UUID, limit int) ([]types.Evaluation, error)
	DeleteEvaluation(ctx context.Context, id uuid.UUID) error
	CreateShareLink(ctx context.Context, evaluationID uuid.UUID, ttl time.Duration) (*types.ShareLink, error)
	GetSharedEvaluation(ctx context.Context, token string) (*types.Evaluation, *types.ShareLink, error)
	Ping(ctx context.Context) error
}

// JobLoader resolves the job description of an upload. *ingestion.Loader implements it.
type JobLoader interface {
	Load(ctx context.Context, src ingestion.Source) (string, *ingestion.Metadata, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	pipeline    *evaluation.Pipeline
	store       Store
	jobs        JobLoader
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	cfg         config.Config
}

// New creates a new server instance. A nil store runs the server without history:
// uploads are evaluated but not saved and history routes answer 503.
func New(cfg config.Config, pipeline *evaluation.Pipeline, store Store, limiter *ratelimit.Limiter) *Server {
	if limiter == nil {
		limiter = ratelimit.NewLimiter(ratelimit.FromEnv(os.Getenv))
	}
	s := &Server{
		pipeline:    pipeline,
		store:       store,
		jobs:        ingestion.NewLoader(nil),
		rateLimiter: limiter,
		validate:    validator.New(),
		cfg:         cfg,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /roles", s.handleRoles)

	// Evaluations
	mux.HandleFunc("POST /evaluations", s.handleCreateEvaluation)
	mux.HandleFunc("GET /evaluations/{id}", s.handleGetEvaluation)
	mux.HandleFunc("DELETE /evaluations/{id}", s.handleDeleteEvaluation)
	mux.HandleFunc("GET /evaluations/{id}/export.json", s.handleExportEvaluation)
	mux.HandleFunc("GET /evaluations/{id}/compare/{other}", s.handleCompareEvaluations)

	// Share links
	mux.HandleFunc("POST /evaluations/{id}/share", s.handleCreateShareLink)
	mux.HandleFunc("GET /shared/{token}", s.handleGetShared)

	// User history
	mux.HandleFunc("GET /users/{id}/evaluations", s.handleListEvaluations)
	mux.HandleFunc("GET /users/{id}/trend", s.handleTrend)
	mux.HandleFunc("GET /users/{id}/evaluations/export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /users/{id}/evaluations/export.xlsx", s.handleExportXLSX)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging,
		middleware.CORS(s.cfg.AllowedOrigins),
		middleware.RateLimit(s.rateLimiter),
	)
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "disabled"}
	if s.store != nil {
		resp["database"] = "ok"
		if err := s.store.Ping(r.Context()); err != nil {
			logger.Ctx(r.Context()).Warn().Err(err).Msg("database ping failed")
			resp["status"] = "degraded"
			resp["database"] = "unavailable"
			s.jsonResponse(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status code and writes it. Server errors are logged with their cause.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	s.errorResponse(w, status, errorMessage(err))
}

// pathUUID parses a UUID path parameter
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}

// requireStore returns ErrNoStore when the server runs without a database
func (s *Server) requireStore() error {
	if s.store == nil {
		return &ErrNoStore{}
	}
	return nil
}
