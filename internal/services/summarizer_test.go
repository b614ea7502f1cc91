package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildOpenAISummaryPrompt(t *testing.T) {
	page := &Page{Title: "Acme Corp", Text: "We sell anvils."}

	prompt := buildOpenAISummaryPrompt(page, false)
	if !strings.Contains(prompt, "Website title: Acme Corp") {
		t.Errorf("missing title line: %q", prompt)
	}
	if !strings.Contains(prompt, "Explain for a 5-year-old: no") {
		t.Errorf("child flag should be 'no': %q", prompt)
	}
	if !strings.Contains(prompt, "We sell anvils.") {
		t.Errorf("missing page content: %q", prompt)
	}

	prompt = buildOpenAISummaryPrompt(page, true)
	if !strings.Contains(prompt, "Explain for a 5-year-old: yes") {
		t.Errorf("child flag should be 'yes': %q", prompt)
	}
}

func TestBuildOpenAISummaryPrompt_CapsContent(t *testing.T) {
	page := &Page{Title: "Big", Text: strings.Repeat("a", openaiSummaryContentCap+5000)}
	prompt := buildOpenAISummaryPrompt(page, false)

	if strings.Count(prompt, "a") > openaiSummaryContentCap+100 {
		t.Errorf("content not capped: prompt length %d", len(prompt))
	}
}

func TestSummarize_UnknownBackend(t *testing.T) {
	svc := NewSummarizerService(NewScraperService(), nil, "gpt-4o-mini", nil, "llama3.2:1b")
	if _, err := svc.Summarize(context.Background(), "https://example.com", "bard", false); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSummarizeOllama_ReportShape(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Acme Corp</title></head><body><p>We sell anvils for $5.</p></body></html>"))
	}))
	defer pageServer.Close()

	ollamaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version":
			w.Write([]byte(`{"version":"0.5.0"}`))
		case "/api/generate":
			json.NewEncoder(w).Encode(map[string]any{"response": "Acme sells anvils for five dollars.", "done": true})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ollamaServer.Close()

	ollama := NewOllamaService(&OllamaConfig{BaseURL: ollamaServer.URL})
	svc := NewSummarizerService(NewScraperService(), nil, "gpt-4o-mini", ollama, "llama3.2:1b")

	result, err := svc.Summarize(context.Background(), pageServer.URL, "ollama", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PageTitle != "Acme Corp" {
		t.Errorf("page title = %q", result.PageTitle)
	}
	if result.Model != "llama3.2:1b" {
		t.Errorf("model = %q", result.Model)
	}
	if result.ProcessingSecs < 0 {
		t.Errorf("processing seconds = %f", result.ProcessingSecs)
	}

	for _, want := range []string{
		"# Website Analysis Report",
		"- **URL:** " + pageServer.URL,
		"- **Title:** Acme Corp",
		"- **Model:** llama3.2:1b",
		"- **Processing Time:**",
		"## Summary\nAcme sells anvils for five dollars.",
	} {
		if !strings.Contains(result.ReportMD, want) {
			t.Errorf("report missing %q:\n%s", want, result.ReportMD)
		}
	}
}

func TestSummarizeOllama_OfflineShortCircuits(t *testing.T) {
	ollamaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ollamaServer.Close()

	ollama := NewOllamaService(&OllamaConfig{BaseURL: ollamaServer.URL})
	svc := NewSummarizerService(NewScraperService(), nil, "gpt-4o-mini", ollama, "llama3.2:1b")

	// No page server involved: the health check must fail first.
	if _, err := svc.Summarize(context.Background(), "http://127.0.0.1:1/never", "ollama", false); err == nil {
		t.Fatal("expected offline error")
	}
}
