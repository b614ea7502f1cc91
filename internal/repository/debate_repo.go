package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptstudio-backend/internal/models"
)

type DebateRepo struct {
	pool *pgxpool.Pool
}

func NewDebateRepo(pool *pgxpool.Pool) *DebateRepo {
	return &DebateRepo{pool: pool}
}

func (r *DebateRepo) Create(ctx context.Context, d *models.Debate) error {
	d.ID = uuid.New()
	d.Status = "pending"

	query := `INSERT INTO debates (id, session_id, topic, rounds, temperature, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		d.ID, d.SessionID, d.Topic, d.Rounds, d.Temperature, d.Status,
	).Scan(&d.CreatedAt)
}

func (r *DebateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Debate, error) {
	d := &models.Debate{}
	query := `SELECT id, session_id, topic, rounds, temperature, status, transcript_md, created_at, completed_at
		FROM debates WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.SessionID, &d.Topic, &d.Rounds, &d.Temperature,
		&d.Status, &d.TranscriptMD, &d.CreatedAt, &d.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DebateRepo) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*models.Debate, error) {
	query := `SELECT id, session_id, topic, rounds, temperature, status, transcript_md, created_at, completed_at
		FROM debates WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debates []*models.Debate
	for rows.Next() {
		d := &models.Debate{}
		if err := rows.Scan(
			&d.ID, &d.SessionID, &d.Topic, &d.Rounds, &d.Temperature,
			&d.Status, &d.TranscriptMD, &d.CreatedAt, &d.CompletedAt,
		); err != nil {
			return nil, err
		}
		debates = append(debates, d)
	}
	return debates, rows.Err()
}

// Complete stores the rendered transcript and the ordered entries in one
// transaction.
func (r *DebateRepo) Complete(ctx context.Context, id uuid.UUID, transcriptMD string, entries []models.TranscriptEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	if _, err := tx.Exec(ctx,
		"UPDATE debates SET status = 'completed', transcript_md = $1, completed_at = $2 WHERE id = $3",
		transcriptMD, now, id,
	); err != nil {
		return err
	}

	for i, entry := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO transcript_entries (id, debate_id, position, round, speaker, content)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), id, i, entry.Round, entry.Speaker, entry.Content,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *DebateRepo) ListEntries(ctx context.Context, debateID uuid.UUID) ([]models.TranscriptEntry, error) {
	query := `SELECT id, debate_id, position, round, speaker, content
		FROM transcript_entries WHERE debate_id = $1 ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, debateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TranscriptEntry
	for rows.Next() {
		var e models.TranscriptEntry
		if err := rows.Scan(&e.ID, &e.DebateID, &e.Position, &e.Round, &e.Speaker, &e.Content); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *DebateRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE debates SET status = $1 WHERE id = $2", status, id)
	return err
}

func (r *DebateRepo) Delete(ctx context.Context, id, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM debates WHERE id = $1 AND session_id = $2", id, sessionID)
	return err
}
