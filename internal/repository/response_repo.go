package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"prism-api/internal/domain"
)

// ResponseRepository es la fuente de respuestas de una sesión de
// evaluación; el core no las busca por su cuenta.
type ResponseRepository interface {
	Create(ctx context.Context, sessionID string, resp domain.Response) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.Response, error)
}

type PgResponseRepository struct {
	pool *pgxpool.Pool
}

func NewPgResponseRepository(pool *pgxpool.Pool) *PgResponseRepository {
	return &PgResponseRepository{pool: pool}
}

func (r *PgResponseRepository) Create(ctx context.Context, sessionID string, resp domain.Response) error {
	const query = `
		INSERT INTO responses (session_id, item_id, value, answered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, item_id)
		DO UPDATE SET value = EXCLUDED.value, answered_at = EXCLUDED.answered_at
	`
	_, err := r.pool.Exec(ctx, query, sessionID, resp.ItemID, resp.Value, resp.AnsweredAt)
	return err
}

func (r *PgResponseRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.Response, error) {
	const query = `
		SELECT item_id, value, answered_at
		FROM responses
		WHERE session_id = $1
		ORDER BY answered_at, item_id
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var responses []domain.Response
	for rows.Next() {
		var resp domain.Response
		if err := rows.Scan(&resp.ItemID, &resp.Value, &resp.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
