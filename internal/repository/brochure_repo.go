package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptstudio-backend/internal/models"
)

type BrochureRepo struct {
	pool *pgxpool.Pool
}

func NewBrochureRepo(pool *pgxpool.Pool) *BrochureRepo {
	return &BrochureRepo{pool: pool}
}

func (r *BrochureRepo) Create(ctx context.Context, b *models.Brochure) error {
	b.ID = uuid.New()
	b.Status = "pending"

	query := `INSERT INTO brochures (id, session_id, company_name, website_url, extra_requirements, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		b.ID, b.SessionID, b.CompanyName, b.WebsiteURL, b.ExtraRequirements, b.Status,
	).Scan(&b.CreatedAt)
}

func (r *BrochureRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Brochure, error) {
	b := &models.Brochure{}
	query := `SELECT id, session_id, company_name, website_url, extra_requirements, content_md, status, created_at, completed_at
		FROM brochures WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.SessionID, &b.CompanyName, &b.WebsiteURL, &b.ExtraRequirements,
		&b.ContentMD, &b.Status, &b.CreatedAt, &b.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BrochureRepo) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*models.Brochure, error) {
	query := `SELECT id, session_id, company_name, website_url, extra_requirements, content_md, status, created_at, completed_at
		FROM brochures WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brochures []*models.Brochure
	for rows.Next() {
		b := &models.Brochure{}
		if err := rows.Scan(
			&b.ID, &b.SessionID, &b.CompanyName, &b.WebsiteURL, &b.ExtraRequirements,
			&b.ContentMD, &b.Status, &b.CreatedAt, &b.CompletedAt,
		); err != nil {
			return nil, err
		}
		brochures = append(brochures, b)
	}
	return brochures, rows.Err()
}

func (r *BrochureRepo) Complete(ctx context.Context, id uuid.UUID, contentMD string) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		"UPDATE brochures SET status = 'completed', content_md = $1, completed_at = $2 WHERE id = $3",
		contentMD, now, id,
	)
	return err
}

func (r *BrochureRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE brochures SET status = $1 WHERE id = $2", status, id)
	return err
}

func (r *BrochureRepo) Delete(ctx context.Context, id, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM brochures WHERE id = $1 AND session_id = $2", id, sessionID)
	return err
}
