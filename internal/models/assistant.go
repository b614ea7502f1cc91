package models

// AskRequest is the payload for the synchronous tech-concept assistant.
type AskRequest struct {
	Question string `json:"question"`
	Backend  string `json:"backend"` // "openai" | "ollama"
}

type AskResponse struct {
	Report string `json:"report"`
}
