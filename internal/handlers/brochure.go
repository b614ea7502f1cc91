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
)

type BrochureHandler struct {
	brochureRepo *repository.BrochureRepo
	jobRepo      *repository.JobRepo
	redis        *redis.Client
}

func NewBrochureHandler(brochureRepo *repository.BrochureRepo, jobRepo *repository.JobRepo, redisClient *redis.Client) *BrochureHandler {
	return &BrochureHandler{
		brochureRepo: brochureRepo,
		jobRepo:      jobRepo,
		redis:        redisClient,
	}
}

func (h *BrochureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBrochureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		fields["company_name"] = "Company name is required"
	}
	req.WebsiteURL = strings.TrimSpace(req.WebsiteURL)
	if req.WebsiteURL == "" {
		fields["website_url"] = "Website URL is required"
	} else if msg := validateHTTPURL(req.WebsiteURL); msg != "" {
		fields["website_url"] = msg
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	sessionID := middleware.GetSessionID(r.Context())

	brochure := &models.Brochure{
		SessionID:         sessionID,
		CompanyName:       req.CompanyName,
		WebsiteURL:        req.WebsiteURL,
		ExtraRequirements: strings.TrimSpace(req.ExtraRequirements),
	}
	if err := h.brochureRepo.Create(r.Context(), brochure); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create brochure", r))
		return
	}

	configBytes, _ := json.Marshal(req)
	job := &models.Job{
		SessionID:   sessionID,
		Type:        "brochure-generation",
		ReferenceID: brochure.ID,
		ConfigJSON:  configBytes,
	}
	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	jobBytes, _ := json.Marshal(job)
	if err := h.redis.LPush(r.Context(), "queue:brochure-generation", string(jobBytes)).Err(); err != nil {
		log.Printf("failed to enqueue brochure-generation job %s: %v", job.ID, err)
		_ = h.jobRepo.UpdateStatus(r.Context(), job.ID, "failed")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue brochure job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":      job.ID,
		"brochure_id": brochure.ID,
	})
}

func (h *BrochureHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	limit, offset := parseLimitOffset(r)

	brochures, err := h.brochureRepo.ListBySession(r.Context(), sessionID, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch brochures", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"brochures": brochures,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *BrochureHandler) Get(w http.ResponseWriter, r *http.Request) {
	brochure, ok := h.ownedBrochure(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, brochure)
}

func (h *BrochureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	brochure, ok := h.ownedBrochure(w, r)
	if !ok {
		return
	}

	if err := h.brochureRepo.Delete(r.Context(), brochure.ID, brochure.SessionID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete brochure", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Brochure deleted"})
}

func (h *BrochureHandler) ownedBrochure(w http.ResponseWriter, r *http.Request) (*models.Brochure, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid brochure ID", r))
		return nil, false
	}

	brochure, err := h.brochureRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Brochure not found", r))
		return nil, false
	}

	if brochure.SessionID != middleware.GetSessionID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return brochure, true
}
