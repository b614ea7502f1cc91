package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptstudio-backend/internal/models"
)

type SummaryRepo struct {
	pool *pgxpool.Pool
}

func NewSummaryRepo(pool *pgxpool.Pool) *SummaryRepo {
	return &SummaryRepo{pool: pool}
}

func (r *SummaryRepo) Create(ctx context.Context, s *models.Summary) error {
	s.ID = uuid.New()
	s.Status = "pending"

	query := `INSERT INTO summaries (id, session_id, source_url, backend, explain_like_child, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.SessionID, s.SourceURL, s.Backend, s.ExplainLikeChild, s.Status,
	).Scan(&s.CreatedAt)
}

func (r *SummaryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error) {
	s := &models.Summary{}
	query := `SELECT id, session_id, source_url, backend, explain_like_child, page_title,
		content_md, model, processing_seconds, status, created_at, completed_at
		FROM summaries WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.SessionID, &s.SourceURL, &s.Backend, &s.ExplainLikeChild, &s.PageTitle,
		&s.ContentMD, &s.Model, &s.ProcessingSecs, &s.Status, &s.CreatedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SummaryRepo) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*models.Summary, error) {
	query := `SELECT id, session_id, source_url, backend, explain_like_child, page_title,
		content_md, model, processing_seconds, status, created_at, completed_at
		FROM summaries WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.Summary
	for rows.Next() {
		s := &models.Summary{}
		if err := rows.Scan(
			&s.ID, &s.SessionID, &s.SourceURL, &s.Backend, &s.ExplainLikeChild, &s.PageTitle,
			&s.ContentMD, &s.Model, &s.ProcessingSecs, &s.Status, &s.CreatedAt, &s.CompletedAt,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *SummaryRepo) Complete(ctx context.Context, id uuid.UUID, pageTitle, contentMD, model string, processingSecs float64) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE summaries SET status = 'completed', page_title = $1, content_md = $2,
			model = $3, processing_seconds = $4, completed_at = $5 WHERE id = $6`,
		pageTitle, contentMD, model, processingSecs, now, id,
	)
	return err
}

func (r *SummaryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE summaries SET status = $1 WHERE id = $2", status, id)
	return err
}

func (r *SummaryRepo) Delete(ctx context.Context, id, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM summaries WHERE id = $1 AND session_id = $2", id, sessionID)
	return err
}
