package models

import (
	"time"

	"github.com/google/uuid"
)

type Poster struct {
	ID          uuid.UUID  `json:"id"`
	SessionID   uuid.UUID  `json:"session_id"`
	City        string     `json:"city"`
	VisualStyle string     `json:"visual_style"`
	Palette     string     `json:"palette"`
	Prompt      *string    `json:"prompt"`
	ImagePath   *string    `json:"-"`
	CaptionMD   *string    `json:"caption_md"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type CreatePosterRequest struct {
	City        string `json:"city"`
	VisualStyle string `json:"visual_style"`
	Palette     string `json:"palette"`
}
