package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckRunning_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/version" {
			t.Errorf("probe hit %s, want /api/version", r.URL.Path)
		}
		w.Write([]byte(`{"version":"0.5.0"}`))
	}))
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL})
	if err := svc.CheckRunning(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckRunning_Offline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Connection refused from here on

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL})

	err := svc.CheckRunning(context.Background())
	if !errors.Is(err, ErrOllamaOffline) {
		t.Fatalf("expected ErrOllamaOffline, got %v", err)
	}

	var ollamaErr *OllamaError
	if !errors.As(err, &ollamaErr) || ollamaErr.Code != "OLLAMA_OFFLINE" {
		t.Fatalf("expected OLLAMA_OFFLINE code, got %v", err)
	}
}

func TestCheckRunning_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL})

	var ollamaErr *OllamaError
	err := svc.CheckRunning(context.Background())
	if !errors.As(err, &ollamaErr) || ollamaErr.Code != "OLLAMA_OFFLINE" {
		t.Fatalf("expected OLLAMA_OFFLINE for bad status, got %v", err)
	}
}

func TestGenerate_SendsRequestAndReturnsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("request hit %s, want /api/generate", r.URL.Path)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["model"] != "llama3.2" {
			t.Errorf("model = %v, want llama3.2", req["model"])
		}
		if req["stream"] != false {
			t.Errorf("stream = %v, want false", req["stream"])
		}
		opts, _ := req["options"].(map[string]any)
		if opts == nil || opts["temperature"] == nil {
			t.Errorf("options.temperature missing: %v", req["options"])
		}

		json.NewEncoder(w).Encode(map[string]any{"response": "hello there", "done": true})
	}))
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL})

	out, err := svc.Generate(context.Background(), "llama3.2", "say hi", 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello there" {
		t.Errorf("response = %q, want 'hello there'", out)
	}
}

func TestGenerate_ZeroTemperatureOmitsOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if _, ok := req["options"]; ok {
			t.Errorf("options should be omitted at temperature 0, got %v", req["options"])
		}
		json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
	}))
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL})
	if _, err := svc.Generate(context.Background(), "llama3.2", "hi", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerate_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewOllamaService(&OllamaConfig{BaseURL: server.URL})

	var ollamaErr *OllamaError
	_, err := svc.Generate(context.Background(), "nope", "hi", 0)
	if !errors.As(err, &ollamaErr) || ollamaErr.Code != "OLLAMA_BAD_RESPONSE" {
		t.Fatalf("expected OLLAMA_BAD_RESPONSE, got %v", err)
	}
}

func TestBuildLocalPrompt(t *testing.T) {
	got := BuildLocalPrompt("be calm", "what is Go?")
	want := "### System: be calm\n\n### User: what is Go?\n\n### Assistant:"
	if got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}
}
