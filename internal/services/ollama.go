package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaError categorizes failures from the local model server so callers
// can distinguish "not running" from a bad response.
type OllamaError struct {
	Code    string
	Message string
	Cause   error
}

func (e *OllamaError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *OllamaError) Unwrap() error {
	return e.Cause
}

var (
	ErrOllamaOffline = &OllamaError{Code: "OLLAMA_OFFLINE", Message: "Ollama is not running"}
	ErrOllamaTimeout = &OllamaError{Code: "OLLAMA_TIMEOUT", Message: "Ollama request timed out"}
)

type OllamaConfig struct {
	// BaseURL of the local server (default http://localhost:11434)
	BaseURL string

	// HealthTimeout for the /api/version probe (default 5s)
	HealthTimeout time.Duration

	// GenerateTimeout for /api/generate calls (default 90s)
	GenerateTimeout time.Duration
}

func DefaultOllamaConfig() *OllamaConfig {
	return &OllamaConfig{
		BaseURL:         "http://localhost:11434",
		HealthTimeout:   5 * time.Second,
		GenerateTimeout: 90 * time.Second,
	}
}

// OllamaService is the HTTP client for the local model server.
// Safe for concurrent use.
type OllamaService struct {
	config     *OllamaConfig
	httpClient *http.Client
}

func NewOllamaService(config *OllamaConfig) *OllamaService {
	if config == nil {
		config = DefaultOllamaConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.HealthTimeout == 0 {
		config.HealthTimeout = 5 * time.Second
	}
	if config.GenerateTimeout == 0 {
		config.GenerateTimeout = 90 * time.Second
	}

	return &OllamaService{
		config:     config,
		httpClient: &http.Client{Timeout: config.GenerateTimeout},
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// CheckRunning probes GET /api/version with a short timeout.
func (s *OllamaService) CheckRunning(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"/api/version", nil)
	if err != nil {
		return &OllamaError{Code: "OLLAMA_REQUEST", Message: "failed to create request", Cause: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrOllamaTimeout
		}
		return ErrOllamaOffline
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &OllamaError{Code: "OLLAMA_OFFLINE", Message: "unexpected status from Ollama: " + resp.Status}
	}

	return nil
}

// Generate runs a single non-streaming completion against /api/generate.
// Temperature <= 0 leaves the model default in place.
func (s *OllamaService) Generate(ctx context.Context, model, prompt string, temperature float32) (string, error) {
	body := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	}
	if temperature > 0 {
		body.Options = map[string]any{"temperature": temperature}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode Ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", &OllamaError{Code: "OLLAMA_REQUEST", Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrOllamaTimeout
		}
		return "", ErrOllamaOffline
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &OllamaError{
			Code:    "OLLAMA_BAD_RESPONSE",
			Message: fmt.Sprintf("Ollama returned %s: %s", resp.Status, string(raw)),
		}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &OllamaError{Code: "OLLAMA_BAD_RESPONSE", Message: "failed to decode response", Cause: err}
	}

	return out.Response, nil
}

// BuildLocalPrompt renders the single-string prompt format the local models
// are driven with: "### System: …\n\n### User: …\n\n### Assistant:".
func BuildLocalPrompt(system, user string) string {
	return fmt.Sprintf("### System: %s\n\n### User: %s\n\n### Assistant:", system, user)
}
