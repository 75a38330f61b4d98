package handlers

import (
	"net/http"

	"academic/models"
)

// ListJuryMembersHandler пользователи с ролью jury (только менеджер)
func (h *Handler) ListJuryMembersHandler(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Jury.Members(r.Context(), currentUser(r), parsePaginationParams(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *Handler) CreateJuryAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	var in models.JuryAssignmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	ja, err := h.svc.Jury.Assign(r.Context(), currentUser(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ja)
}

// ListJuryAssignmentsHandler GET /api/jury/assignments[?department=]
func (h *Handler) ListJuryAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	f := models.JuryAssignmentFilter{Department: queryString(r, "department"), Page: parsePaginationParams(r)}
	assignments, err := h.svc.Jury.Assignments(r.Context(), currentUser(r), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (h *Handler) GetJuryAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "assignmentId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ja, err := h.svc.Jury.Assignment(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ja)
}

func (h *Handler) DeleteJuryAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "assignmentId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Jury.Unassign(r.Context(), currentUser(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
