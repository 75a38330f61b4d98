package handlers

import (
	"net/http"

	"academic/internal/metrics"
	"academic/models"
)

// RegisterHandler обрабатывает POST /api/register; всегда создаёт кандидата
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.svc.Auth.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// LoginHandler обрабатывает POST /api/login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.svc.Auth.Login(r.Context(), in)
	if err != nil {
		metrics.ObserveLogin("failed")
		h.writeError(w, r, err)
		return
	}
	metrics.ObserveLogin("ok")
	writeJSON(w, http.StatusOK, resp)
}
