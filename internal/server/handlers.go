package server

import (
	"net/http"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/scoring"
)

// RolesResponse is the response for GET /roles
type RolesResponse struct {
	Roles        []rules.Role    `json:"roles"`
	FallbackRole string          `json:"fallback_role"`
	Weights      scoring.Weights `json:"weights"`
}

// handleRoles lists the role table used for role suggestions and the active weights
func (s *Server) handleRoles(w http.ResponseWriter, _ *http.Request) {
	r := s.pipeline.Rules()
	s.jsonResponse(w, http.StatusOK, RolesResponse{
		Roles:        r.Roles,
		FallbackRole: r.FallbackRole,
		Weights:      s.pipeline.Weights(),
	})
}
