package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is an anonymous browser session. All generated artifacts belong to
// exactly one session.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Label     *string   `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

type CreateSessionRequest struct {
	Label string `json:"label"`
}

type CreateSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresIn int       `json:"expires_in"`
}
