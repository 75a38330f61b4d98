package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"academic/internal/apperr"
	"academic/internal/service"
	"academic/models"

	"github.com/go-chi/chi/v5"
)

// CreateApplicationHandler подаёт заявку от имени владельца токена
func (h *Handler) CreateApplicationHandler(w http.ResponseWriter, r *http.Request) {
	var in models.ApplicationInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.svc.Applications.Create(r.Context(), currentUser(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ListApplicationsHandler GET /api/applications[?status=]; кандидат видит только свои
func (h *Handler) ListApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	f := models.ApplicationFilter{Page: parsePaginationParams(r)}
	if status := queryString(r, "status"); status != nil {
		v := models.ApplicationStatus(*status)
		f.Status = &v
	}
	apps, err := h.svc.Applications.List(r.Context(), currentUser(r), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *Handler) GetApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "applicationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.svc.Applications.Get(r.Context(), currentUser(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) UpdateApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "applicationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch models.ApplicationUpdate
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.svc.Applications.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// SetApplicationStatusHandler PUT /api/applications/{id}/status; статус из query или из тела
func (h *Handler) SetApplicationStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "applicationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in models.StatusInput
	if status := queryString(r, "status"); status != nil {
		in.Status = models.ApplicationStatus(*status)
	} else if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.svc.Applications.SetStatus(r.Context(), currentUser(r), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UploadDocumentsHandler принимает multipart с необязательными полями cv, diploma,
// publications, citations, conferences
func (h *Handler) UploadDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "applicationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, r, apperr.Wrap(apperr.KindValidation, "invalid multipart form", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	var docs []service.Document
	for _, slot := range models.DocumentSlots {
		file, header, err := r.FormFile(string(slot))
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			h.writeError(w, r, apperr.Wrap(apperr.KindValidation, "invalid file for "+string(slot), err))
			return
		}
		defer func(f multipart.File) { f.Close() }(file)
		docs = append(docs, service.Document{Slot: slot, Filename: header.Filename, Content: file})
	}

	a, err := h.svc.Applications.UploadDocuments(r.Context(), currentUser(r), id, docs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DownloadDocumentHandler отдаёт сохранённый документ слота
func (h *Handler) DownloadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "applicationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	slot := models.DocumentSlot(chi.URLParam(r, "slot"))
	f, err := h.svc.Applications.OpenDocument(r.Context(), currentUser(r), id, slot)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.writeError(w, r, apperr.Internal(err))
		return
	}
	name := filepath.Base(f.Name())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(slot)+filepath.Ext(name)))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
