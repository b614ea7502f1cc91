package models

import (
	"time"

	"github.com/google/uuid"
)

type Brochure struct {
	ID                uuid.UUID  `json:"id"`
	SessionID         uuid.UUID  `json:"session_id"`
	CompanyName       string     `json:"company_name"`
	WebsiteURL        string     `json:"website_url"`
	ExtraRequirements string     `json:"extra_requirements"`
	ContentMD         *string    `json:"content_md"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// LinkPick is one brochure-relevant link chosen by the model.
type LinkPick struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type CreateBrochureRequest struct {
	CompanyName       string `json:"company_name"`
	WebsiteURL        string `json:"website_url"`
	ExtraRequirements string `json:"extra_requirements"`
}
