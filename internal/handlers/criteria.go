package handlers

import (
	"net/http"

	"academic/models"
)

func (h *Handler) CreateCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	var in models.CriteriaInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Criteria.Create(r.Context(), currentUser(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListCriteriaHandler GET /api/criteria[?position_type=]
func (h *Handler) ListCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	var positionType *models.Position
	if v := queryString(r, "position_type"); v != nil {
		p := models.Position(*v)
		positionType = &p
	}
	criteria, err := h.svc.Criteria.List(r.Context(), currentUser(r), positionType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, criteria)
}

func (h *Handler) GetCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "criteriaId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Criteria.Get(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "criteriaId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch models.CriteriaUpdate
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Criteria.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "criteriaId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Criteria.Delete(r.Context(), currentUser(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
