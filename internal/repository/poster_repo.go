package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptstudio-backend/internal/models"
)

type PosterRepo struct {
	pool *pgxpool.Pool
}

func NewPosterRepo(pool *pgxpool.Pool) *PosterRepo {
	return &PosterRepo{pool: pool}
}

func (r *PosterRepo) Create(ctx context.Context, p *models.Poster) error {
	p.ID = uuid.New()
	p.Status = "pending"

	query := `INSERT INTO posters (id, session_id, city, visual_style, palette, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		p.ID, p.SessionID, p.City, p.VisualStyle, p.Palette, p.Status,
	).Scan(&p.CreatedAt)
}

func (r *PosterRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Poster, error) {
	p := &models.Poster{}
	query := `SELECT id, session_id, city, visual_style, palette, prompt, image_path, caption_md, status, created_at, completed_at
		FROM posters WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SessionID, &p.City, &p.VisualStyle, &p.Palette,
		&p.Prompt, &p.ImagePath, &p.CaptionMD, &p.Status, &p.CreatedAt, &p.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PosterRepo) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*models.Poster, error) {
	query := `SELECT id, session_id, city, visual_style, palette, prompt, image_path, caption_md, status, created_at, completed_at
		FROM posters WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posters []*models.Poster
	for rows.Next() {
		p := &models.Poster{}
		if err := rows.Scan(
			&p.ID, &p.SessionID, &p.City, &p.VisualStyle, &p.Palette,
			&p.Prompt, &p.ImagePath, &p.CaptionMD, &p.Status, &p.CreatedAt, &p.CompletedAt,
		); err != nil {
			return nil, err
		}
		posters = append(posters, p)
	}
	return posters, rows.Err()
}

func (r *PosterRepo) Complete(ctx context.Context, id uuid.UUID, prompt, imagePath, captionMD string) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE posters SET status = 'completed', prompt = $1, image_path = $2,
			caption_md = $3, completed_at = $4 WHERE id = $5`,
		prompt, imagePath, captionMD, now, id,
	)
	return err
}

func (r *PosterRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE posters SET status = $1 WHERE id = $2", status, id)
	return err
}

func (r *PosterRepo) Delete(ctx context.Context, id, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM posters WHERE id = $1 AND session_id = $2", id, sessionID)
	return err
}
