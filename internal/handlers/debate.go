package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptstudio-backend/internal/middleware"
	"promptstudio-backend/internal/models"
	"promptstudio-backend/internal/repository"
	"promptstudio-backend/internal/services"
)

type DebateHandler struct {
	debateRepo *repository.DebateRepo
	jobRepo    *repository.JobRepo
	redis      *redis.Client
}

func NewDebateHandler(debateRepo *repository.DebateRepo, jobRepo *repository.JobRepo, redisClient *redis.Client) *DebateHandler {
	return &DebateHandler{
		debateRepo: debateRepo,
		jobRepo:    jobRepo,
		redis:      redisClient,
	}
}

func (h *DebateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDebateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		fields["topic"] = "Topic is required"
	} else if len(req.Topic) > 500 {
		fields["topic"] = "Topic must be at most 500 characters"
	}

	if req.Rounds == 0 {
		req.Rounds = services.DefaultDebateRounds
	}
	if req.Rounds < services.MinDebateRounds || req.Rounds > services.MaxDebateRounds {
		fields["rounds"] = "Rounds must be between 1 and 8"
	}

	if req.Temperature == 0 {
		req.Temperature = services.DefaultDebateTemperature
	}
	if req.Temperature < services.MinDebateTemperature || req.Temperature > services.MaxDebateTemperature {
		fields["temperature"] = "Temperature must be between 0.1 and 1.2"
	}

	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	sessionID := middleware.GetSessionID(r.Context())

	debate := &models.Debate{
		SessionID:   sessionID,
		Topic:       req.Topic,
		Rounds:      req.Rounds,
		Temperature: req.Temperature,
	}
	if err := h.debateRepo.Create(r.Context(), debate); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create debate", r))
		return
	}

	configBytes, _ := json.Marshal(req)
	job := &models.Job{
		SessionID:   sessionID,
		Type:        "debate-run",
		ReferenceID: debate.ID,
		ConfigJSON:  configBytes,
	}
	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	jobBytes, _ := json.Marshal(job)
	if err := h.redis.LPush(r.Context(), "queue:debate-run", string(jobBytes)).Err(); err != nil {
		log.Printf("failed to enqueue debate-run job %s: %v", job.ID, err)
		_ = h.jobRepo.UpdateStatus(r.Context(), job.ID, "failed")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue debate job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":    job.ID,
		"debate_id": debate.ID,
	})
}

func (h *DebateHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	limit, offset := parseLimitOffset(r)

	debates, err := h.debateRepo.ListBySession(r.Context(), sessionID, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch debates", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"debates": debates,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *DebateHandler) Get(w http.ResponseWriter, r *http.Request) {
	debate, ok := h.ownedDebate(w, r)
	if !ok {
		return
	}

	entries, err := h.debateRepo.ListEntries(r.Context(), debate.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch transcript", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"debate":  debate,
		"entries": entries,
	})
}

func (h *DebateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	debate, ok := h.ownedDebate(w, r)
	if !ok {
		return
	}

	if err := h.debateRepo.Delete(r.Context(), debate.ID, debate.SessionID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete debate", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Debate deleted"})
}

func (h *DebateHandler) ownedDebate(w http.ResponseWriter, r *http.Request) (*models.Debate, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid debate ID", r))
		return nil, false
	}

	debate, err := h.debateRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Debate not found", r))
		return nil, false
	}

	if debate.SessionID != middleware.GetSessionID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return debate, true
}
