package handlers

import (
	"net/http"

	"academic/models"
)

// GetMeHandler возвращает профиль текущего пользователя
func (h *Handler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.Me(r.Context(), currentUser(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.UserUpdate
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.UpdateMe(r.Context(), currentUser(r), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ListUsersHandler GET /api/users[?role=]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	f := models.UserFilter{Page: parsePaginationParams(r)}
	if role := queryString(r, "role"); role != nil {
		v := models.Role(*role)
		f.Role = &v
	}
	users, err := h.svc.Users.List(r.Context(), currentUser(r), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in models.CreateUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.Create(r.Context(), currentUser(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.Get(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch models.AdminUserUpdate
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.svc.Users.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Users.Delete(r.Context(), currentUser(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
