package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"

	"promptstudio-backend/internal/models"
)

// OpenAIService wraps the hosted model API for chat completions and image
// generation. Concurrency is bounded with a token bucket, and transient
// failures are retried with exponential backoff.
type OpenAIService struct {
	client     *openai.Client
	chatModel  string
	imageModel string
	rateChan   chan struct{} // Token bucket
}

func NewOpenAIService(apiKey, chatModel, imageModel string, concurrentReqs int) *OpenAIService {
	if concurrentReqs <= 0 {
		concurrentReqs = 5
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &OpenAIService{
		client:     openai.NewClient(apiKey),
		chatModel:  chatModel,
		imageModel: imageModel,
		rateChan:   rateChan,
	}
}

// acquireRate blocks until a rate slot is available
func (s *OpenAIService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for OpenAI rate slot")
	}
}

func (s *OpenAIService) releaseRate() {
	s.rateChan <- struct{}{}
}

func (s *OpenAIService) retryPolicy(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = 2 * time.Minute
	return backoff.WithContext(policy, ctx)
}

// Chat runs one chat completion with a system prompt and prior history.
// Temperature <= 0 uses the API default.
func (s *OpenAIService) Chat(ctx context.Context, system string, history []models.ChatMessage, temperature float32) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	var resp openai.ChatCompletionResponse
	err := backoff.Retry(func() error {
		var callErr error
		resp, callErr = s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.chatModel,
			Messages:    messages,
			Temperature: temperature,
		})
		return callErr
	}, s.retryPolicy(ctx))
	if err != nil {
		return "", fmt.Errorf("OpenAI chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateImage creates one 1024x1024 image and returns the decoded PNG bytes.
func (s *OpenAIService) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	var resp openai.ImageResponse
	err := backoff.Retry(func() error {
		var callErr error
		resp, callErr = s.client.CreateImage(ctx, openai.ImageRequest{
			Model:          s.imageModel,
			Prompt:         prompt,
			Size:           openai.CreateImageSize1024x1024,
			ResponseFormat: openai.CreateImageResponseFormatB64JSON,
			N:              1,
		})
		return callErr
	}, s.retryPolicy(ctx))
	if err != nil {
		return nil, fmt.Errorf("OpenAI image generation failed: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("OpenAI returned no image data")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	return raw, nil
}
