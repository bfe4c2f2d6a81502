package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prism-api/internal/domain"
)

// ResultRepository persiste la salida de una corrida de scoring.
type ResultRepository interface {
	Upsert(ctx context.Context, result domain.AssessmentResult) error
	GetBySessionID(ctx context.Context, sessionID string) (domain.AssessmentResult, error)
}

type PgResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool}
}

func (r *PgResultRepository) Upsert(ctx context.Context, result domain.AssessmentResult) error {
	dims, err := json.Marshal(result.Dimensions)
	if err != nil {
		return fmt.Errorf("encode dimensions: %w", err)
	}
	frameworks, err := json.Marshal(result.Frameworks)
	if err != nil {
		return fmt.Errorf("encode frameworks: %w", err)
	}

	const query = `
		INSERT INTO assessment_results (id, session_id, user_id, dimensions, frameworks, skipped, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id)
		DO UPDATE SET
			dimensions = EXCLUDED.dimensions,
			frameworks = EXCLUDED.frameworks,
			skipped = EXCLUDED.skipped,
			created_at = EXCLUDED.created_at
	`
	_, err = r.pool.Exec(ctx, query,
		result.ID,
		result.SessionID,
		result.UserID,
		dims,
		frameworks,
		result.Skipped,
		result.CreatedAt,
	)
	return err
}

func (r *PgResultRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.AssessmentResult, error) {
	const query = `
		SELECT id, session_id, user_id, dimensions, frameworks, skipped, created_at
		FROM assessment_results
		WHERE session_id = $1
	`
	var result domain.AssessmentResult
	var dims, frameworks []byte
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&result.ID,
		&result.SessionID,
		&result.UserID,
		&dims,
		&frameworks,
		&result.Skipped,
		&result.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AssessmentResult{}, ErrNotFound
	}
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	if err := json.Unmarshal(dims, &result.Dimensions); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("decode dimensions: %w", err)
	}
	if err := json.Unmarshal(frameworks, &result.Frameworks); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("decode frameworks: %w", err)
	}
	return result, nil
}
