package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"promptstudio-backend/internal/middleware"
	"promptstudio-backend/internal/models"
	"promptstudio-backend/internal/repository"
)

type SessionHandler struct {
	sessionRepo *repository.SessionRepo
	jwtAuth     *middleware.JWTAuth
}

func NewSessionHandler(sessionRepo *repository.SessionRepo, jwtAuth *middleware.JWTAuth) *SessionHandler {
	return &SessionHandler{
		sessionRepo: sessionRepo,
		jwtAuth:     jwtAuth,
	}
}

// Create mints a new anonymous session and its bearer token. No signup; a
// session is just an ID the artifacts hang off.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	// Body is optional, so decode errors are ignored.
	json.NewDecoder(r.Body).Decode(&req)

	session := &models.Session{}
	if label := strings.TrimSpace(req.Label); label != "" {
		if len(label) > 100 {
			label = label[:100]
		}
		session.Label = &label
	}

	if err := h.sessionRepo.Create(r.Context(), session); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	token, err := h.jwtAuth.GenerateSessionToken(session.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to generate token", r))
		return
	}

	writeJSON(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: session.ID,
		Token:     token,
		ExpiresIn: int(middleware.SessionTokenTTL.Seconds()),
	})
}

// Get returns the authenticated session's own record.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	session, err := h.sessionRepo.GetByID(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}

	writeJSON(w, http.StatusOK, session)
}
