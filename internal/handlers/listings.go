package handlers

import (
	"net/http"

	"academic/models"
)

// CreateListingHandler обрабатывает POST /api/listings (только администратор)
func (h *Handler) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	var in models.ListingInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.svc.Listings.Create(r.Context(), currentUser(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// ListListingsHandler возвращает объявления с applications_count
func (h *Handler) ListListingsHandler(w http.ResponseWriter, r *http.Request) {
	f := models.ListingFilter{Page: parsePaginationParams(r)}
	if status := queryString(r, "status"); status != nil {
		v := models.ListingStatus(*status)
		f.Status = &v
	}
	listings, err := h.svc.Listings.List(r.Context(), currentUser(r), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) GetListingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "listingId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.svc.Listings.Get(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) UpdateListingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "listingId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch models.ListingUpdate
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	l, err := h.svc.Listings.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) DeleteListingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "listingId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Listings.Delete(r.Context(), currentUser(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
