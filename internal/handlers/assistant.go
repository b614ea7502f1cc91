package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"promptstudio-backend/internal/models"
	"promptstudio-backend/internal/services"
)

type AssistantHandler struct {
	assistant *services.AssistantService
}

func NewAssistantHandler(assistant *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Ask answers a tech question synchronously. Unlike the generators this
// endpoint blocks until the model replies, since a single completion is fast
// enough to serve inline.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		fields["question"] = "Question is required"
	} else if len(req.Question) > 4000 {
		fields["question"] = "Question must be at most 4000 characters"
	}

	if req.Backend == "" {
		req.Backend = "openai"
	}
	if req.Backend != "openai" && req.Backend != "ollama" {
		fields["backend"] = "Backend must be openai or ollama"
	}

	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	report, err := h.assistant.Ask(r.Context(), req.Question, req.Backend)
	if err != nil {
		var ollamaErr *services.OllamaError
		if errors.As(err, &ollamaErr) && ollamaErr.Code == "OLLAMA_OFFLINE" {
			writeJSON(w, http.StatusServiceUnavailable, errorResp("OLLAMA_OFFLINE", "Local model server is not reachable", r))
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Model request failed", r))
		return
	}

	writeJSON(w, http.StatusOK, models.AskResponse{Report: report})
}
