package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kaedema/anirec/internal/domain"
	"github.com/kaedema/anirec/internal/service"
)

var factorKinds = map[string]domain.FactorKind{
	"genre":      domain.FactorGenre,
	"tag":        domain.FactorTag,
	"staff":      domain.FactorStaff,
	"studio":     domain.FactorStudio,
	"voiceActor": domain.FactorVoiceActor,
	"parent":     domain.FactorParent,
}

// POST /sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be JSON with a username field")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || len(username) > 64 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid username parameter")
		return
	}

	view, err := h.service.StartSession(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse(view))
}

// GET /sessions/{sessionID}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid session id")
		return
	}

	view, err := h.service.Rankings(sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(view))
}

// POST /sessions/{sessionID}/removed-factors
func (h *Handler) RemoveFactor(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid session id")
		return
	}

	var req RemoveFactorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be JSON with name and kind fields")
		return
	}

	kind, ok := factorKinds[req.Kind]
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Unknown factor kind")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Factor name must not be empty")
		return
	}

	view, err := h.service.RemoveFactor(sessionID, domain.Factor{Name: req.Name, Kind: kind})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse(view))
}

func sessionResponse(view *service.SessionView) SessionResponse {
	return SessionResponse{
		Session: view,
		Metadata: SessionMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(view.Recommendations),
		},
	}
}
