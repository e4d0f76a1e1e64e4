package server

import (
	"net/http"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// SharedResponse is the response for GET /shared/{token}
type SharedResponse struct {
	Evaluation types.Evaluation `json:"evaluation"`
	Link       types.ShareLink  `json:"link"`
}

// handleCreateShareLink creates a read-only link to an evaluation
func (s *Server) handleCreateShareLink(w http.ResponseWriter, r *http.Request) {
	e, err := s.loadEvaluation(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	link, err := s.store.CreateShareLink(r.Context(), e.ID, s.cfg.ShareTTL())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, link)
}

// handleGetShared resolves a share token and counts the view
func (s *Server) handleGetShared(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.fail(w, r, err)
		return
	}
	token := r.PathValue("token")
	if len(token) != 32 {
		s.fail(w, r, &ErrNotFound{Resource: "share link", ID: token})
		return
	}
	e, link, err := s.store.GetSharedEvaluation(r.Context(), token)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if e == nil || link == nil {
		s.fail(w, r, &ErrNotFound{Resource: "share link", ID: token})
		return
	}
	s.jsonResponse(w, http.StatusOK, SharedResponse{Evaluation: *e, Link: *link})
}
