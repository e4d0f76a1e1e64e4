package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// DefaultListLimit caps history listings when no limit is given
const DefaultListLimit = 50

const evaluationColumns = `id, user_id, filename, job_description, report, created_at`

// SaveEvaluation stores an evaluation and fills in its ID and creation time
func (db *DB) SaveEvaluation(ctx context.Context, e *types.Evaluation) error {
	reportJSON, err := json.Marshal(e.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO evaluations (user_id, filename, job_description, overall, label, report)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		e.UserID, e.Filename, e.TargetDescription, e.Report.Overall, string(e.Report.Label), reportJSON,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

// GetEvaluation retrieves an evaluation by ID. It returns nil when none exists.
func (db *DB) GetEvaluation(ctx context.Context, id uuid.UUID) (*types.Evaluation, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE id = $1`, id)

	e, err := scanEvaluation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return e, nil
}

// ListEvaluations retrieves a user's evaluations, newest first
func (db *DB) ListEvaluations(ctx context.Context, userID uuid.UUID, limit int) ([]types.Evaluation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations
		 WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	evaluations := []types.Evaluation{}
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evaluations = append(evaluations, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evaluations, nil
}

// DeleteEvaluation deletes an evaluation and its share links (via cascade)
func (db *DB) DeleteEvaluation(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM evaluations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanEvaluation(row pgx.Row) (*types.Evaluation, error) {
	var e types.Evaluation
	var reportJSON []byte
	if err := row.Scan(&e.ID, &e.UserID, &e.Filename, &e.TargetDescription, &reportJSON, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reportJSON, &e.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &e, nil
}
