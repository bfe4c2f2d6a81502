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

// RoleProfileRepository guarda perfiles ideales autorados por empleadores
// o generados por el analisis de descripciones de puesto.
type RoleProfileRepository interface {
	Create(ctx context.Context, profile domain.IdealProfile) error
	GetByID(ctx context.Context, id string) (domain.IdealProfile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.IdealProfile, error)
}

type PgRoleProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoleProfileRepository(pool *pgxpool.Pool) *PgRoleProfileRepository {
	return &PgRoleProfileRepository{pool: pool}
}

func (r *PgRoleProfileRepository) Create(ctx context.Context, profile domain.IdealProfile) error {
	dims, err := json.Marshal(profile.Dimensions)
	if err != nil {
		return fmt.Errorf("encode profile dimensions: %w", err)
	}
	const query = `
		INSERT INTO role_profiles (id, name, owner_id, dimensions, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query, profile.ID, profile.Name, profile.OwnerID, dims, profile.CreatedAt)
	return err
}

func (r *PgRoleProfileRepository) GetByID(ctx context.Context, id string) (domain.IdealProfile, error) {
	const query = `
		SELECT id, name, owner_id, dimensions, created_at
		FROM role_profiles
		WHERE id = $1
	`
	var profile domain.IdealProfile
	var dims []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Name,
		&profile.OwnerID,
		&dims,
		&profile.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.IdealProfile{}, ErrNotFound
	}
	if err != nil {
		return domain.IdealProfile{}, err
	}
	if err := json.Unmarshal(dims, &profile.Dimensions); err != nil {
		return domain.IdealProfile{}, fmt.Errorf("decode profile dimensions: %w", err)
	}
	return profile, nil
}

func (r *PgRoleProfileRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.IdealProfile, error) {
	const query = `
		SELECT id, name, owner_id, dimensions, created_at
		FROM role_profiles
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list role profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.IdealProfile
	for rows.Next() {
		var profile domain.IdealProfile
		var dims []byte
		if err := rows.Scan(&profile.ID, &profile.Name, &profile.OwnerID, &dims, &profile.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role profile: %w", err)
		}
		if err := json.Unmarshal(dims, &profile.Dimensions); err != nil {
			return nil, fmt.Errorf("decode profile dimensions %s: %w", profile.ID, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
