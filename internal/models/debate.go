package models

import (
	"time"

	"github.com/google/uuid"
)

// Speakers in a debate transcript. The hosted side is always "gpt", the
// local side always "ollama", and entries strictly alternate gpt → ollama.
const (
	SpeakerGPT    = "gpt"
	SpeakerOllama = "ollama"
)

type Debate struct {
	ID           uuid.UUID  `json:"id"`
	SessionID    uuid.UUID  `json:"session_id"`
	Topic        string     `json:"topic"`
	Rounds       int        `json:"rounds"`
	Temperature  float32    `json:"temperature"`
	Status       string     `json:"status"` // "pending" | "processing" | "completed" | "failed"
	TranscriptMD *string    `json:"transcript_md"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// TranscriptEntry is one reply inside a debate, in submitted order.
// Round 0 holds the two seeded openers.
type TranscriptEntry struct {
	ID       uuid.UUID `json:"id"`
	DebateID uuid.UUID `json:"debate_id"`
	Position int       `json:"position"`
	Round    int       `json:"round"`
	Speaker  string    `json:"speaker"`
	Content  string    `json:"content"`
}

type CreateDebateRequest struct {
	Topic       string  `json:"topic"`
	Rounds      int     `json:"rounds"`
	Temperature float32 `json:"temperature"`
}
