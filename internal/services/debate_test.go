package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"promptstudio-backend/internal/models"
)

type fakeHosted struct {
	replies []string
	calls   int
	history [][]models.ChatMessage
	err     error
}

func (f *fakeHosted) Chat(ctx context.Context, system string, history []models.ChatMessage, temperature float32) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.history = append(f.history, history)
	reply := fmt.Sprintf("gpt reply %d", f.calls+1)
	if f.calls < len(f.replies) {
		reply = f.replies[f.calls]
	}
	f.calls++
	return reply, nil
}

type fakeLocal struct {
	offline bool
	calls   int
	prompts []string
}

func (f *fakeLocal) CheckRunning(ctx context.Context) error {
	if f.offline {
		return ErrOllamaOffline
	}
	return nil
}

func (f *fakeLocal) Generate(ctx context.Context, model, prompt string, temperature float32) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.calls++
	return fmt.Sprintf("ollama reply %d", f.calls), nil
}

func TestDebateRun_TurnCountAndAlternation(t *testing.T) {
	for rounds := MinDebateRounds; rounds <= MaxDebateRounds; rounds++ {
		svc := NewDebateService(&fakeHosted{}, &fakeLocal{}, "llama3.2")

		turns, err := svc.Run(context.Background(), "tabs vs spaces", rounds, 0.7, nil)
		if err != nil {
			t.Fatalf("rounds=%d: unexpected error: %v", rounds, err)
		}

		want := 2*rounds + 2
		if len(turns) != want {
			t.Fatalf("rounds=%d: got %d turns, want %d", rounds, len(turns), want)
		}

		for i, turn := range turns {
			wantSpeaker := models.SpeakerGPT
			if i%2 == 1 {
				wantSpeaker = models.SpeakerOllama
			}
			if turn.Speaker != wantSpeaker {
				t.Errorf("rounds=%d: turn %d speaker = %q, want %q", rounds, i, turn.Speaker, wantSpeaker)
			}
			if turn.Round != i/2 {
				t.Errorf("rounds=%d: turn %d round = %d, want %d", rounds, i, turn.Round, i/2)
			}
		}
	}
}

func TestDebateRun_SeedsOpeners(t *testing.T) {
	svc := NewDebateService(&fakeHosted{}, &fakeLocal{}, "llama3.2")

	turns, err := svc.Run(context.Background(), "remote work", 1, 0.7, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantGPT := "My position on 'remote work' is absolute, and you are wrong."
	if turns[0].Content != wantGPT {
		t.Errorf("gpt opener = %q, want %q", turns[0].Content, wantGPT)
	}

	wantOllama := "Let's discuss 'remote work' calmly and find practical common ground."
	if turns[1].Content != wantOllama {
		t.Errorf("ollama opener = %q, want %q", turns[1].Content, wantOllama)
	}
}

func TestDebateRun_RejectsBadRounds(t *testing.T) {
	svc := NewDebateService(&fakeHosted{}, &fakeLocal{}, "llama3.2")

	for _, rounds := range []int{0, -1, 9, 100} {
		if _, err := svc.Run(context.Background(), "topic", rounds, 0.7, nil); err == nil {
			t.Errorf("rounds=%d: expected error, got nil", rounds)
		}
	}
}

func TestDebateRun_OfflineLocalFailsBeforeAnyChat(t *testing.T) {
	hosted := &fakeHosted{}
	svc := NewDebateService(hosted, &fakeLocal{offline: true}, "llama3.2")

	_, err := svc.Run(context.Background(), "topic", 2, 0.7, nil)
	if !errors.Is(err, ErrOllamaOffline) {
		t.Fatalf("expected ErrOllamaOffline, got %v", err)
	}
	if hosted.calls != 0 {
		t.Errorf("hosted model was called %d times before health check failure", hosted.calls)
	}
}

func TestDebateRun_HistoryGrowsPairwise(t *testing.T) {
	hosted := &fakeHosted{}
	svc := NewDebateService(hosted, &fakeLocal{}, "llama3.2")

	if _, err := svc.Run(context.Background(), "topic", 3, 0.7, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Round N sees N prior exchanges: opener pair plus one pair per
	// completed round.
	for i, history := range hosted.history {
		want := 2 * (i + 1)
		if len(history) != want {
			t.Errorf("round %d: history length = %d, want %d", i+1, len(history), want)
		}
		for j, msg := range history {
			wantRole := "assistant"
			if j%2 == 1 {
				wantRole = "user"
			}
			if msg.Role != wantRole {
				t.Errorf("round %d message %d: role = %q, want %q", i+1, j, msg.Role, wantRole)
			}
		}
	}
}

func TestDebateRun_LocalPromptWrapsHostedReply(t *testing.T) {
	local := &fakeLocal{}
	svc := NewDebateService(&fakeHosted{replies: []string{"you are wrong about this"}}, local, "llama3.2")

	if _, err := svc.Run(context.Background(), "topic", 1, 0.7, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(local.prompts) != 1 {
		t.Fatalf("local model called %d times, want 1", len(local.prompts))
	}
	if !strings.Contains(local.prompts[0], "### User: you are wrong about this") {
		t.Errorf("local prompt does not carry hosted reply: %q", local.prompts[0])
	}
	if !strings.HasSuffix(local.prompts[0], "### Assistant:") {
		t.Errorf("local prompt missing assistant cue: %q", local.prompts[0])
	}
}

func TestDebateRun_OnRoundCallback(t *testing.T) {
	svc := NewDebateService(&fakeHosted{}, &fakeLocal{}, "llama3.2")

	var seen []int
	_, err := svc.Run(context.Background(), "topic", 4, 0.7, func(round int) {
		seen = append(seen, round)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 4 {
		t.Fatalf("onRound called %d times, want 4", len(seen))
	}
	for i, round := range seen {
		if round != i+1 {
			t.Errorf("callback %d got round %d, want %d", i, round, i+1)
		}
	}
}

func TestZipDebateHistory(t *testing.T) {
	history := zipDebateHistory(
		[]string{"g1", "g2"},
		[]string{"o1", "o2"},
	)

	if len(history) != 4 {
		t.Fatalf("got %d messages, want 4", len(history))
	}

	want := []models.ChatMessage{
		{Role: "assistant", Content: "g1"},
		{Role: "user", Content: "o1"},
		{Role: "assistant", Content: "g2"},
		{Role: "user", Content: "o2"},
	}
	for i, msg := range history {
		if msg != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, msg, want[i])
		}
	}
}

func TestZipDebateHistory_UnevenSides(t *testing.T) {
	history := zipDebateHistory([]string{"g1", "g2"}, []string{"o1"})
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
}

func TestRenderDebateTranscript(t *testing.T) {
	turns := []DebateTurn{
		{Round: 0, Speaker: models.SpeakerGPT, Content: "opener one"},
		{Round: 0, Speaker: models.SpeakerOllama, Content: "opener two"},
		{Round: 1, Speaker: models.SpeakerGPT, Content: "attack"},
		{Round: 1, Speaker: models.SpeakerOllama, Content: "calm down"},
	}

	md := RenderDebateTranscript("tabs vs spaces", turns)

	if !strings.HasPrefix(md, "# AI Debate Transcript\n") {
		t.Errorf("missing title header:\n%s", md)
	}
	if !strings.Contains(md, "**Topic:** tabs vs spaces") {
		t.Errorf("missing topic line:\n%s", md)
	}
	if !strings.Contains(md, "## Round 1\n### GPT\nattack") {
		t.Errorf("missing round 1 gpt block:\n%s", md)
	}
	if !strings.Contains(md, "### Ollama\ncalm down") {
		t.Errorf("missing round 1 ollama block:\n%s", md)
	}
	if strings.Contains(md, "## Round 0") {
		t.Errorf("openers must not get a round header:\n%s", md)
	}
	if strings.Count(md, "## Round 1") != 1 {
		t.Errorf("round header repeated:\n%s", md)
	}
}
