package handler

import "github.com/kaedema/anirec/internal/service"

type StartSessionRequest struct {
	Username string `json:"username"`
}

type RemoveFactorRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type SessionResponse struct {
	Session  *service.SessionView `json:"session"`
	Metadata SessionMeta          `json:"metadata"`
}

type SessionMeta struct {
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
