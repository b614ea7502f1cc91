package models

import (
	"time"

	"github.com/google/uuid"
)

type Summary struct {
	ID               uuid.UUID  `json:"id"`
	SessionID        uuid.UUID  `json:"session_id"`
	SourceURL        string     `json:"source_url"`
	Backend          string     `json:"backend"` // "openai" | "ollama"
	ExplainLikeChild bool       `json:"explain_like_child"`
	PageTitle        *string    `json:"page_title"`
	ContentMD        *string    `json:"content_md"`
	Model            *string    `json:"model"`
	ProcessingSecs   *float64   `json:"processing_seconds"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

type CreateSummaryRequest struct {
	SourceURL        string `json:"source_url"`
	Backend          string `json:"backend"`
	ExplainLikeChild bool   `json:"explain_like_child"`
}
