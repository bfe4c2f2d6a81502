package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"prism-api/internal/domain"
)

// ItemRepository es el proveedor del banco de items. El core trata lo que
// devuelve ListActive como un snapshot de solo lectura por llamada.
type ItemRepository interface {
	ListActive(ctx context.Context) ([]domain.Item, error)
}

// PgItemRepository implementa ItemRepository usando pgxpool.
type PgItemRepository struct {
	pool *pgxpool.Pool
}

func NewPgItemRepository(pool *pgxpool.Pool) *PgItemRepository {
	return &PgItemRepository{pool: pool}
}

func (r *PgItemRepository) ListActive(ctx context.Context) ([]domain.Item, error) {
	const query = `
		SELECT id, text, type, dimension, options, reverse_scored, weight, frameworks, order_index
		FROM items
		WHERE active = TRUE
		ORDER BY order_index, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		var optionsJSON []byte
		if err := rows.Scan(
			&it.ID,
			&it.Text,
			&it.Type,
			&it.Dimension,
			&optionsJSON,
			&it.ReverseScored,
			&it.Weight,
			&it.Frameworks,
			&it.OrderIndex,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if len(optionsJSON) > 0 {
			if err := json.Unmarshal(optionsJSON, &it.Options); err != nil {
				return nil, fmt.Errorf("decode item options %s: %w", it.ID, err)
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
