package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptstudio-backend/internal/middleware"
	"promptstudio-backend/internal/models"
	"promptstudio-backend/internal/repository"
	"promptstudio-backend/internal/services"
)

type PosterHandler struct {
	posterRepo *repository.PosterRepo
	jobRepo    *repository.JobRepo
	redis      *redis.Client
}

func NewPosterHandler(posterRepo *repository.PosterRepo, jobRepo *repository.JobRepo, redisClient *redis.Client) *PosterHandler {
	return &PosterHandler{
		posterRepo: posterRepo,
		jobRepo:    jobRepo,
		redis:      redisClient,
	}
}

func (h *PosterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	req.City = strings.TrimSpace(req.City)
	if req.City == "" {
		fields["city"] = "City is required"
	} else if len(req.City) > 120 {
		fields["city"] = "City must be at most 120 characters"
	}

	if req.VisualStyle == "" {
		req.VisualStyle = services.DefaultPosterStyle
	}
	if req.Palette == "" {
		req.Palette = services.DefaultPosterPalette
	}
	if !services.IsPosterPalette(req.Palette) {
		fields["palette"] = "Unknown palette: " + strings.Join(services.PosterPaletteNames(), ", ") + " are supported"
	}

	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	sessionID := middleware.GetSessionID(r.Context())

	poster := &models.Poster{
		SessionID:   sessionID,
		City:        req.City,
		VisualStyle: req.VisualStyle,
		Palette:     req.Palette,
	}
	if err := h.posterRepo.Create(r.Context(), poster); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create poster", r))
		return
	}

	configBytes, _ := json.Marshal(req)
	job := &models.Job{
		SessionID:   sessionID,
		Type:        "poster-generation",
		ReferenceID: poster.ID,
		ConfigJSON:  configBytes,
	}
	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	jobBytes, _ := json.Marshal(job)
	if err := h.redis.LPush(r.Context(), "queue:poster-generation", string(jobBytes)).Err(); err != nil {
		log.Printf("failed to enqueue poster-generation job %s: %v", job.ID, err)
		_ = h.jobRepo.UpdateStatus(r.Context(), job.ID, "failed")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue poster job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":    job.ID,
		"poster_id": poster.ID,
	})
}

func (h *PosterHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	limit, offset := parseLimitOffset(r)

	posters, err := h.posterRepo.ListBySession(r.Context(), sessionID, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch posters", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"posters": posters,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *PosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	poster, ok := h.ownedPoster(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, poster)
}

// Image streams the rendered PNG from disk.
func (h *PosterHandler) Image(w http.ResponseWriter, r *http.Request) {
	poster, ok := h.ownedPoster(w, r)
	if !ok {
		return
	}

	if poster.Status != "completed" || poster.ImagePath == nil {
		writeJSON(w, http.StatusConflict, errorResp("NOT_READY", "Poster image is not ready yet", r))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, *poster.ImagePath)
}

func (h *PosterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	poster, ok := h.ownedPoster(w, r)
	if !ok {
		return
	}

	if err := h.posterRepo.Delete(r.Context(), poster.ID, poster.SessionID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete poster", r))
		return
	}

	// Removing the PNG is best-effort; a stale file is harmless.
	if poster.ImagePath != nil {
		if err := os.Remove(*poster.ImagePath); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove poster image %s: %v", *poster.ImagePath, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Poster deleted"})
}

func (h *PosterHandler) ownedPoster(w http.ResponseWriter, r *http.Request) (*models.Poster, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid poster ID", r))
		return nil, false
	}

	poster, err := h.posterRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Poster not found", r))
		return nil, false
	}

	if poster.SessionID != middleware.GetSessionID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return poster, true
}
