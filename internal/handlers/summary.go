package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptstudio-backend/internal/middleware"
	"promptstudio-backend/internal/models"
	"promptstudio-backend/internal/repository"
)

type SummaryHandler struct {
	summaryRepo *repository.SummaryRepo
	jobRepo     *repository.JobRepo
	redis       *redis.Client
}

func NewSummaryHandler(summaryRepo *repository.SummaryRepo, jobRepo *repository.JobRepo, redisClient *redis.Client) *SummaryHandler {
	return &SummaryHandler{
		summaryRepo: summaryRepo,
		jobRepo:     jobRepo,
		redis:       redisClient,
	}
}

func validateHTTPURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "Must be a valid http(s) URL"
	}
	return ""
}

func (h *SummaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	req.SourceURL = strings.TrimSpace(req.SourceURL)
	if req.SourceURL == "" {
		fields["source_url"] = "Source URL is required"
	} else if msg := validateHTTPURL(req.SourceURL); msg != "" {
		fields["source_url"] = msg
	}

	if req.Backend == "" {
		req.Backend = "openai"
	}
	if req.Backend != "openai" && req.Backend != "ollama" {
		fields["backend"] = "Backend must be openai or ollama"
	}
	// The child-friendly mode only exists on the hosted path.
	if req.ExplainLikeChild && req.Backend != "openai" {
		fields["explain_like_child"] = "Only supported with the openai backend"
	}

	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	sessionID := middleware.GetSessionID(r.Context())

	summary := &models.Summary{
		SessionID:        sessionID,
		SourceURL:        req.SourceURL,
		Backend:          req.Backend,
		ExplainLikeChild: req.ExplainLikeChild,
	}
	if err := h.summaryRepo.Create(r.Context(), summary); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create summary", r))
		return
	}

	configBytes, _ := json.Marshal(req)
	job := &models.Job{
		SessionID:   sessionID,
		Type:        "summary-generation",
		ReferenceID: summary.ID,
		ConfigJSON:  configBytes,
	}
	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	jobBytes, _ := json.Marshal(job)
	if err := h.redis.LPush(r.Context(), "queue:summary-generation", string(jobBytes)).Err(); err != nil {
		log.Printf("failed to enqueue summary-generation job %s: %v", job.ID, err)
		_ = h.jobRepo.UpdateStatus(r.Context(), job.ID, "failed")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue summary job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":     job.ID,
		"summary_id": summary.ID,
	})
}

func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	limit, offset := parseLimitOffset(r)

	summaries, err := h.summaryRepo.ListBySession(r.Context(), sessionID, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch summaries", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": summaries,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.ownedSummary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *SummaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.ownedSummary(w, r)
	if !ok {
		return
	}

	if err := h.summaryRepo.Delete(r.Context(), summary.ID, summary.SessionID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete summary", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Summary deleted"})
}

func (h *SummaryHandler) ownedSummary(w http.ResponseWriter, r *http.Request) (*models.Summary, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid summary ID", r))
		return nil, false
	}

	summary, err := h.summaryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Summary not found", r))
		return nil, false
	}

	if summary.SessionID != middleware.GetSessionID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return summary, true
}
