package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptstudio-backend/internal/models"
)

const (
	openaiSummarySystem = "You summarize websites with focus on important numbers and business signals. " +
		"Explain clearly and keep markdown structure easy to scan."
	ollamaSummarySystem = "You analyze websites and explain the content in clear markdown. " +
		"Focus on numbers, key events, and simple language for children."

	// Model input caps, in characters of scraped page content.
	openaiSummaryContentCap = 12000
	ollamaSummaryContentCap = 15000
)

// SummaryResult is what a finished summarization run produces.
type SummaryResult struct {
	PageTitle      string
	ReportMD       string
	Model          string
	ProcessingSecs float64
}

type SummarizerService struct {
	scraper     *ScraperService
	openai      *OpenAIService
	openaiModel string
	ollama      *OllamaService
	ollamaModel string
}

func NewSummarizerService(scraper *ScraperService, openaiSvc *OpenAIService, openaiModel string, ollamaSvc *OllamaService, ollamaModel string) *SummarizerService {
	return &SummarizerService{
		scraper:     scraper,
		openai:      openaiSvc,
		openaiModel: openaiModel,
		ollama:      ollamaSvc,
		ollamaModel: ollamaModel,
	}
}

// Summarize scrapes the page and produces the markdown report for the
// requested backend.
func (s *SummarizerService) Summarize(ctx context.Context, pageURL, backend string, explainLikeChild bool) (*SummaryResult, error) {
	switch backend {
	case "openai":
		return s.summarizeOpenAI(ctx, pageURL, explainLikeChild)
	case "ollama":
		return s.summarizeOllama(ctx, pageURL)
	default:
		return nil, fmt.Errorf("unknown summary backend %q", backend)
	}
}

func (s *SummarizerService) summarizeOpenAI(ctx context.Context, pageURL string, explainLikeChild bool) (*SummaryResult, error) {
	start := time.Now()

	page, err := s.scraper.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	userPrompt := buildOpenAISummaryPrompt(page, explainLikeChild)
	summary, err := s.openai.Chat(ctx, openaiSummarySystem, []models.ChatMessage{
		{Role: "user", Content: userPrompt},
	}, 0)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(summary) == "" {
		summary = "No summary generated."
	}

	report := fmt.Sprintf("# Website Summary\n\n**Source:** %s\n\n%s", pageURL, summary)

	return &SummaryResult{
		PageTitle:      page.Title,
		ReportMD:       report,
		Model:          s.openaiModel,
		ProcessingSecs: time.Since(start).Seconds(),
	}, nil
}

func (s *SummarizerService) summarizeOllama(ctx context.Context, pageURL string) (*SummaryResult, error) {
	if err := s.ollama.CheckRunning(ctx); err != nil {
		return nil, err
	}

	start := time.Now()

	page, err := s.scraper.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	user := fmt.Sprintf("Analyze this page titled '%s'. Summarize in child-friendly language and preserve key numbers.\n\nContent:\n%s",
		page.Title, truncate(page.Text, ollamaSummaryContentCap))
	prompt := BuildLocalPrompt(ollamaSummarySystem, user)

	summary, err := s.ollama.Generate(ctx, s.ollamaModel, prompt, 0)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(summary) == "" {
		summary = "No summary generated."
	}

	elapsed := time.Since(start).Seconds()
	report := fmt.Sprintf(`# Website Analysis Report

- **URL:** %s
- **Title:** %s
- **Generated:** %s
- **Processing Time:** %.2fs
- **Model:** %s

## Summary
%s`,
		page.URL, page.Title, time.Now().Format("2006-01-02 15:04:05"), elapsed, s.ollamaModel, summary)

	return &SummaryResult{
		PageTitle:      page.Title,
		ReportMD:       report,
		Model:          s.ollamaModel,
		ProcessingSecs: elapsed,
	}, nil
}

func buildOpenAISummaryPrompt(page *Page, explainLikeChild bool) string {
	child := "no"
	if explainLikeChild {
		child = "yes"
	}
	return fmt.Sprintf("Website title: %s\nSummarize the key ideas, highlight numeric data, and include business implications.\nExplain for a 5-year-old: %s\n\nWebsite content:\n%s",
		page.Title, child, truncate(page.Text, openaiSummaryContentCap))
}
