package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptstudio-backend/internal/models"
)

const (
	openaiAssistantSystem = "You are a practical technical assistant for SaaS AI teams. " +
		"Use markdown sections: What it is, How it was created, and Practical SaaS use."
	ollamaAssistantSystem = "You are a technical AI assistant. Respond in markdown using this format: " +
		"1) What it is, 2) How it was created, 3) Practical use in SaaS products."
)

// AssistantService answers one-off tech-concept questions synchronously
// against either backend.
type AssistantService struct {
	openai      *OpenAIService
	ollama      *OllamaService
	ollamaModel string
	now         func() time.Time
}

func NewAssistantService(openaiSvc *OpenAIService, ollamaSvc *OllamaService, ollamaModel string) *AssistantService {
	return &AssistantService{
		openai:      openaiSvc,
		ollama:      ollamaSvc,
		ollamaModel: ollamaModel,
		now:         time.Now,
	}
}

func (s *AssistantService) Ask(ctx context.Context, question, backend string) (string, error) {
	switch backend {
	case "openai":
		return s.askOpenAI(ctx, question)
	case "ollama":
		return s.askOllama(ctx, question)
	default:
		return "", fmt.Errorf("unknown assistant backend %q", backend)
	}
}

func (s *AssistantService) askOpenAI(ctx context.Context, question string) (string, error) {
	content, err := s.openai.Chat(ctx, openaiAssistantSystem, []models.ChatMessage{
		{Role: "user", Content: question},
	}, 0)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		content = "No response generated."
	}

	return fmt.Sprintf("# OpenAI Technical Brief\nGenerated on: %s\n\n## Query\n%s\n\n## Response\n%s",
		s.now().Format("2006-01-02 15:04:05"), question, content), nil
}

func (s *AssistantService) askOllama(ctx context.Context, question string) (string, error) {
	if err := s.ollama.CheckRunning(ctx); err != nil {
		return "", err
	}

	prompt := BuildLocalPrompt(ollamaAssistantSystem, question)
	body, err := s.ollama.Generate(ctx, s.ollamaModel, prompt, 0)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		body = "No response generated."
	}

	return fmt.Sprintf("# Technology Concept Explanation\nGenerated on: %s\n\n## Query\n%s\n\n## Response\n%s\n\n---\nGenerated using %s",
		s.now().Format("2006-01-02 15:04:05"), question, body, s.ollamaModel), nil
}
