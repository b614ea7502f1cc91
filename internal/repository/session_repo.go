package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptstudio-backend/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, s *models.Session) error {
	s.ID = uuid.New()

	query := `INSERT INTO sessions (id, label)
		VALUES ($1, $2) RETURNING created_at, last_seen`

	return r.pool.QueryRow(ctx, query, s.ID, s.Label).Scan(&s.CreatedAt, &s.LastSeen)
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	s := &models.Session{}
	query := `SELECT id, label, created_at, last_seen FROM sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Label, &s.CreatedAt, &s.LastSeen)
	if err != nil {
		return nil, err
	}

	// Update last_seen
	r.pool.Exec(ctx, "UPDATE sessions SET last_seen = NOW() WHERE id = $1", id)
	return s, nil
}
