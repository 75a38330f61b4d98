package handlers

import (
	"net/http"

	"academic/models"
)

// CreateEvaluationHandler назначает оценку члену жюри (только менеджер)
func (h *Handler) CreateEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	var in models.EvaluationInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	e, err := h.svc.Evaluations.Create(r.Context(), currentUser(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// ListEvaluationsHandler GET /api/evaluations[?is_completed=]; жюри видит только свои
func (h *Handler) ListEvaluationsHandler(w http.ResponseWriter, r *http.Request) {
	completed, err := queryBool(r, "is_completed")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	f := models.EvaluationFilter{IsCompleted: completed, Page: parsePaginationParams(r)}
	evals, err := h.svc.Evaluations.List(r.Context(), currentUser(r), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evals)
}

func (h *Handler) GetEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "evaluationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	e, err := h.svc.Evaluations.Get(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "evaluationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch models.EvaluationUpdate
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	e, err := h.svc.Evaluations.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "evaluationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Evaluations.Delete(r.Context(), currentUser(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
