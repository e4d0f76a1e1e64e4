package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// DefaultShareTTL is how long a share link stays valid when no lifetime is given
const DefaultShareTTL = 30 * 24 * time.Hour

// newShareToken returns 32 random hex characters
func newShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// shareExpiry returns the expiry time of a link created at now; a negative ttl never expires
func shareExpiry(now time.Time, ttl time.Duration) *time.Time {
	if ttl < 0 {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultShareTTL
	}
	expires := now.Add(ttl)
	return &expires
}

// CreateShareLink creates a share link for an evaluation
func (db *DB) CreateShareLink(ctx context.Context, evaluationID uuid.UUID, ttl time.Duration) (*types.ShareLink, error) {
	link := types.ShareLink{
		Token:        newShareToken(),
		EvaluationID: evaluationID,
		ExpiresAt:    shareExpiry(time.Now().UTC(), ttl),
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO shared_links (token, evaluation_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING views, created_at`,
		link.Token, link.EvaluationID, link.ExpiresAt,
	).Scan(&link.Views, &link.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create share link: %w", err)
	}
	return &link, nil
}

// GetSharedEvaluation resolves a share token, counting the view.
// It returns nil when the token is unknown or expired.
func (db *DB) GetSharedEvaluation(ctx context.Context, token string) (*types.Evaluation, *types.ShareLink, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	link := types.ShareLink{Token: token}
	err = tx.QueryRow(ctx,
		`UPDATE shared_links SET views = views + 1
		 WHERE token = $1 AND (expires_at IS NULL OR expires_at > NOW())
		 RETURNING evaluation_id, views, expires_at, created_at`,
		token,
	).Scan(&link.EvaluationID, &link.Views, &link.ExpiresAt, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to resolve share link: %w", err)
	}

	e, err := scanEvaluation(tx.QueryRow(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE id = $1`, link.EvaluationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get shared evaluation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit share view: %w", err)
	}
	return e, &link, nil
}
