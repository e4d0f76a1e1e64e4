package types

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationRequest is the request-scoped input to one pipeline run.
// Callers build it per request; the pipeline never reads session or user state.
type EvaluationRequest struct {
	Document Document `json:"document"`
	// TargetDescription is an optional job description used to bias keyword scoring
	TargetDescription string `json:"target_description,omitempty" validate:"max=20000"`
}

// UploadRequest holds the non-file fields of an evaluation upload
type UploadRequest struct {
	UserID            string `json:"user_id" validate:"required,uuid"`
	Filename          string `json:"filename" validate:"required,max=255"`
	TargetDescription string `json:"job_description,omitempty" validate:"max=20000"`
	JobURL            string `json:"job_url,omitempty" validate:"omitempty,url,max=2048"`
}

// Evaluation is a persisted ScoreReport keyed by user and creation time
type Evaluation struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user_id"`
	Filename          string      `json:"filename"`
	TargetDescription string      `json:"job_description,omitempty"`
	Report            ScoreReport `json:"report"`
	CreatedAt         time.Time   `json:"created_at"`
}

// Trend direction values
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
	TrendNeutral   = "neutral"
)

// ScoreTrend summarizes how a user's overall scores are moving
type ScoreTrend struct {
	Trend  string  `json:"trend"`
	Change float64 `json:"change"`
}

// ShareLink grants read access to one evaluation until it expires
type ShareLink struct {
	Token        string     `json:"token"`
	EvaluationID uuid.UUID  `json:"evaluation_id"`
	Views        int        `json:"views"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
