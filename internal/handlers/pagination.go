package handlers

import (
	"net/http"
	"strconv"

	"academic/internal/apperr"
	"academic/internal/service"
	"academic/models"
)

// parsePaginationParams парсит skip и limit из query, с дефолтами и ограничениями
func parsePaginationParams(r *http.Request) models.Page {
	page := models.Page{Skip: 0, Limit: service.DefaultLimit}

	if s := r.URL.Query().Get("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			page.Skip = v
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			page.Limit = v
		}
	}
	if page.Limit > service.MaxLimit {
		page.Limit = service.MaxLimit
	}
	return page
}

// queryString возвращает указатель на значение параметра или nil, если его нет.
func queryString(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func queryBool(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperr.Validation(name + " must be a boolean")
	}
	return &b, nil
}
