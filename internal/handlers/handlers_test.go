package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptstudio-backend/internal/models"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) (*httptest.ResponseRecorder, models.ErrorResponse) {
	t.Helper()

	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "test-request")

	rr := httptest.NewRecorder()
	handler(rr, req)

	var errResp models.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &errResp)
	return rr, errResp
}

// ─── Debate Handler Tests ───

func TestDebateCreate_Validation(t *testing.T) {
	h := NewDebateHandler(nil, nil, nil)

	tests := []struct {
		name  string
		body  models.CreateDebateRequest
		field string
	}{
		{"missing topic", models.CreateDebateRequest{Rounds: 4}, "topic"},
		{"topic too long", models.CreateDebateRequest{Topic: strings.Repeat("x", 501)}, "topic"},
		{"rounds too high", models.CreateDebateRequest{Topic: "cats", Rounds: 9}, "rounds"},
		{"rounds negative", models.CreateDebateRequest{Topic: "cats", Rounds: -1}, "rounds"},
		{"temperature too low", models.CreateDebateRequest{Topic: "cats", Temperature: 0.05}, "temperature"},
		{"temperature too high", models.CreateDebateRequest{Topic: "cats", Temperature: 1.3}, "temperature"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, errResp := postJSON(t, h.Create, "/api/v1/debates", tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if errResp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error code = %q", errResp.Error.Code)
			}
			if _, ok := errResp.Error.Fields[tc.field]; !ok {
				t.Errorf("expected field error on %q, got %v", tc.field, errResp.Error.Fields)
			}
		})
	}
}

func TestDebateCreate_InvalidJSON(t *testing.T) {
	h := NewDebateHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/debates", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

// ─── Summary Handler Tests ───

func TestSummaryCreate_Validation(t *testing.T) {
	h := NewSummaryHandler(nil, nil, nil)

	tests := []struct {
		name  string
		body  models.CreateSummaryRequest
		field string
	}{
		{"missing url", models.CreateSummaryRequest{Backend: "openai"}, "source_url"},
		{"bad scheme", models.CreateSummaryRequest{SourceURL: "ftp://example.com"}, "source_url"},
		{"not a url", models.CreateSummaryRequest{SourceURL: "just words"}, "source_url"},
		{"unknown backend", models.CreateSummaryRequest{SourceURL: "https://example.com", Backend: "bard"}, "backend"},
		{"child mode on ollama", models.CreateSummaryRequest{SourceURL: "https://example.com", Backend: "ollama", ExplainLikeChild: true}, "explain_like_child"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, errResp := postJSON(t, h.Create, "/api/v1/summaries", tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if _, ok := errResp.Error.Fields[tc.field]; !ok {
				t.Errorf("expected field error on %q, got %v", tc.field, errResp.Error.Fields)
			}
		})
	}
}

// ─── Brochure Handler Tests ───

func TestBrochureCreate_Validation(t *testing.T) {
	h := NewBrochureHandler(nil, nil, nil)

	tests := []struct {
		name  string
		body  models.CreateBrochureRequest
		field string
	}{
		{"missing company", models.CreateBrochureRequest{WebsiteURL: "https://example.com"}, "company_name"},
		{"missing url", models.CreateBrochureRequest{CompanyName: "Acme"}, "website_url"},
		{"bad url", models.CreateBrochureRequest{CompanyName: "Acme", WebsiteURL: "nope"}, "website_url"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, errResp := postJSON(t, h.Create, "/api/v1/brochures", tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if _, ok := errResp.Error.Fields[tc.field]; !ok {
				t.Errorf("expected field error on %q, got %v", tc.field, errResp.Error.Fields)
			}
		})
	}
}

// ─── Poster Handler Tests ───

func TestPosterCreate_Validation(t *testing.T) {
	h := NewPosterHandler(nil, nil, nil)

	tests := []struct {
		name  string
		body  models.CreatePosterRequest
		field string
	}{
		{"missing city", models.CreatePosterRequest{Palette: "AI Clean"}, "city"},
		{"city too long", models.CreatePosterRequest{City: strings.Repeat("x", 121)}, "city"},
		{"unknown palette", models.CreatePosterRequest{City: "Tokyo", Palette: "Vaporwave"}, "palette"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, errResp := postJSON(t, h.Create, "/api/v1/posters", tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if _, ok := errResp.Error.Fields[tc.field]; !ok {
				t.Errorf("expected field error on %q, got %v", tc.field, errResp.Error.Fields)
			}
		})
	}
}

// ─── Assistant Handler Tests ───

func TestAssistantAsk_Validation(t *testing.T) {
	h := NewAssistantHandler(nil)

	tests := []struct {
		name  string
		body  models.AskRequest
		field string
	}{
		{"missing question", models.AskRequest{Backend: "openai"}, "question"},
		{"question too long", models.AskRequest{Question: strings.Repeat("x", 4001)}, "question"},
		{"unknown backend", models.AskRequest{Question: "what is Go?", Backend: "bard"}, "backend"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, errResp := postJSON(t, h.Ask, "/api/v1/assistant/ask", tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if _, ok := errResp.Error.Fields[tc.field]; !ok {
				t.Errorf("expected field error on %q, got %v", tc.field, errResp.Error.Fields)
			}
		})
	}
}

// ─── Helper Tests ───

func TestErrorResp_CarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	resp := errorResp("NOT_FOUND", "nope", req)
	if resp.Error.RequestID != "abc-123" {
		t.Errorf("request id = %q", resp.Error.RequestID)
	}
	if resp.Error.Code != "NOT_FOUND" || resp.Error.Message != "nope" {
		t.Errorf("unexpected error payload: %+v", resp.Error)
	}
}

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=10&offset=5", 10, 5},
		{"?limit=0", 20, 0},
		{"?limit=999", 20, 0},
		{"?offset=-3", 20, 0},
		{"?limit=abc", 20, 0},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		limit, offset := parseLimitOffset(req)
		if limit != tc.wantLimit || offset != tc.wantOffset {
			t.Errorf("%q: got (%d, %d), want (%d, %d)", tc.query, limit, offset, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestValidateHTTPURL(t *testing.T) {
	if msg := validateHTTPURL("https://example.com/page"); msg != "" {
		t.Errorf("valid URL rejected: %s", msg)
	}
	for _, raw := range []string{"ftp://example.com", "example.com", "://bad", "https://"} {
		if msg := validateHTTPURL(raw); msg == "" {
			t.Errorf("invalid URL %q accepted", raw)
		}
	}
}
