package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/resume-evaluator/internal/db"
	"github.com/jonathan/resume-evaluator/internal/export"
	"github.com/jonathan/resume-evaluator/internal/history"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// maxListLimit bounds the limit query parameter
const maxListLimit = 500

// HistoryResponse is the response for GET /users/{id}/evaluations
type HistoryResponse struct {
	Evaluations []types.Evaluation `json:"evaluations"`
	Count       int                `json:"count"`
	Trend       types.ScoreTrend   `json:"trend"`
}

// userHistory loads a user's evaluations newest first
func (s *Server) userHistory(r *http.Request, limit int) ([]types.Evaluation, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	userID, err := pathUUID(r, "id")
	if err != nil {
		return nil, err
	}
	evaluations, err := s.store.ListEvaluations(r.Context(), userID, limit)
	if err != nil {
		return nil, err
	}
	history.SortNewestFirst(evaluations)
	return evaluations, nil
}

// listLimit parses the optional limit query parameter
func listLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return db.DefaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxListLimit {
		return 0, &ErrValidation{Field: "limit", Message: "must be between 1 and " + strconv.Itoa(maxListLimit)}
	}
	return limit, nil
}

// handleListEvaluations returns a user's evaluations newest first
func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	limit, err := listLimit(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	evaluations, err := s.userHistory(r, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, HistoryResponse{
		Evaluations: evaluations,
		Count:       len(evaluations),
		Trend:       history.Trend(evaluations),
	})
}

// handleTrend returns the direction of a user's recent overall scores
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	evaluations, err := s.userHistory(r, db.DefaultListLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, history.Trend(evaluations))
}

// handleExportCSV downloads a user's history as CSV
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	evaluations, err := s.userHistory(r, maxListLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setAttachment(w, export.ContentTypeCSV, export.Filename("resume_history", "csv", time.Now()))
	if err := export.CSV(w, evaluations); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("failed to write CSV export")
	}
}

// handleExportXLSX downloads a user's history as an Excel workbook
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	evaluations, err := s.userHistory(r, maxListLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setAttachment(w, export.ContentTypeXLSX, export.Filename("resume_history", "xlsx", time.Now()))
	if err := export.XLSX(w, evaluations); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("failed to write XLSX export")
	}
}
