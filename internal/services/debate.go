package services

import (
	"context"
	"fmt"
	"strings"

	"promptstudio-backend/internal/models"
)

const (
	gptDebateSystem = "You are a highly argumentative assistant. " +
		"Disagree, challenge assumptions, and use concise snarky tone."
	ollamaDebateSystem = "You are a calm and diplomatic assistant. " +
		"Seek common ground and de-escalate conflicts while staying practical."

	MinDebateRounds     = 1
	MaxDebateRounds     = 8
	DefaultDebateRounds = 4

	MinDebateTemperature     = 0.1
	MaxDebateTemperature     = 1.2
	DefaultDebateTemperature = 0.7
)

// DebateTurn is one reply produced while a debate runs, before persistence.
type DebateTurn struct {
	Round   int
	Speaker string
	Content string
}

type hostedChatClient interface {
	Chat(ctx context.Context, system string, history []models.ChatMessage, temperature float32) (string, error)
}

type localModelClient interface {
	CheckRunning(ctx context.Context) error
	Generate(ctx context.Context, model, prompt string, temperature float32) (string, error)
}

// DebateService runs the fixed-round alternating loop between the hosted
// model and the local model.
type DebateService struct {
	hosted      hostedChatClient
	local       localModelClient
	ollamaModel string
}

func NewDebateService(hosted hostedChatClient, local localModelClient, ollamaModel string) *DebateService {
	return &DebateService{
		hosted:      hosted,
		local:       local,
		ollamaModel: ollamaModel,
	}
}

// Run executes a debate of `rounds` rounds and returns every turn in
// submitted order: the two seeded openers (round 0), then one gpt and one
// ollama reply per round. A completed debate therefore always holds exactly
// 2*rounds+2 turns in strict gpt/ollama alternation.
//
// onRound, if non-nil, is called after each completed round.
func (s *DebateService) Run(ctx context.Context, topic string, rounds int, temperature float32, onRound func(round int)) ([]DebateTurn, error) {
	if rounds < MinDebateRounds || rounds > MaxDebateRounds {
		return nil, fmt.Errorf("rounds must be between %d and %d", MinDebateRounds, MaxDebateRounds)
	}

	if err := s.local.CheckRunning(ctx); err != nil {
		return nil, err
	}

	gptMessages := []string{fmt.Sprintf("My position on '%s' is absolute, and you are wrong.", topic)}
	ollamaMessages := []string{fmt.Sprintf("Let's discuss '%s' calmly and find practical common ground.", topic)}

	turns := []DebateTurn{
		{Round: 0, Speaker: models.SpeakerGPT, Content: gptMessages[0]},
		{Round: 0, Speaker: models.SpeakerOllama, Content: ollamaMessages[0]},
	}

	for round := 1; round <= rounds; round++ {
		gptReply, err := s.hosted.Chat(ctx, gptDebateSystem, zipDebateHistory(gptMessages, ollamaMessages), temperature)
		if err != nil {
			return nil, fmt.Errorf("hosted reply failed in round %d: %w", round, err)
		}

		ollamaPrompt := BuildLocalPrompt(ollamaDebateSystem, gptReply)
		ollamaReply, err := s.local.Generate(ctx, s.ollamaModel, ollamaPrompt, temperature)
		if err != nil {
			return nil, fmt.Errorf("local reply failed in round %d: %w", round, err)
		}

		gptMessages = append(gptMessages, gptReply)
		ollamaMessages = append(ollamaMessages, ollamaReply)

		turns = append(turns,
			DebateTurn{Round: round, Speaker: models.SpeakerGPT, Content: gptReply},
			DebateTurn{Round: round, Speaker: models.SpeakerOllama, Content: ollamaReply},
		)

		if onRound != nil {
			onRound(round)
		}
	}

	return turns, nil
}

// zipDebateHistory interleaves the hosted side's own prior replies
// (assistant role) with the local side's replies (user role), pairwise.
func zipDebateHistory(gptMessages, ollamaMessages []string) []models.ChatMessage {
	n := len(gptMessages)
	if len(ollamaMessages) < n {
		n = len(ollamaMessages)
	}

	history := make([]models.ChatMessage, 0, 2*n)
	for i := 0; i < n; i++ {
		history = append(history,
			models.ChatMessage{Role: "assistant", Content: gptMessages[i]},
			models.ChatMessage{Role: "user", Content: ollamaMessages[i]},
		)
	}
	return history
}

// RenderDebateTranscript formats the turns as the markdown transcript shown
// in the UI.
func RenderDebateTranscript(topic string, turns []DebateTurn) string {
	var b strings.Builder

	b.WriteString("# AI Debate Transcript\n")
	b.WriteString(fmt.Sprintf("**Topic:** %s\n\n", topic))

	lastRound := -1
	for _, turn := range turns {
		if turn.Round > 0 && turn.Round != lastRound {
			b.WriteString(fmt.Sprintf("## Round %d\n", turn.Round))
		}
		lastRound = turn.Round

		switch turn.Speaker {
		case models.SpeakerGPT:
			b.WriteString(fmt.Sprintf("### GPT\n%s\n\n", turn.Content))
		case models.SpeakerOllama:
			b.WriteString(fmt.Sprintf("### Ollama\n%s\n\n", turn.Content))
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
