package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kaedema/anirec/internal/domain"
	"github.com/kaedema/anirec/internal/service"
)

type Handler struct {
	service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// respondError maps a service error onto the HTTP surface.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found",
			"Session does not exist or has expired, start a new one")
	case errors.Is(err, domain.ErrEmptyHistory):
		writeError(w, http.StatusUnprocessableEntity, "empty_history",
			"No anime found in this user's list. Add anime to the profile and try again")
	case errors.Is(err, domain.ErrNoCandidates):
		writeError(w, http.StatusUnprocessableEntity, "no_candidates",
			"No recommendations found. Please try again later")
	case domain.IsCatalogError(err):
		writeError(w, http.StatusBadGateway, "catalog_unavailable",
			"The catalog service is unavailable. Please try again later")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout",
			"Request timed out, please try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
