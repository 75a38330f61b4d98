package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"strconv"

	"academic/internal/apperr"
	"academic/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxJSONBody = 1 << 20

// Handler оборачивает доменные сервисы для HTTP
type Handler struct {
	svc  *service.Services
	log  *slog.Logger
	opts Options

	trusted     []netip.Prefix
	authLimiter *rateLimiter
}

// Options параметры HTTP-слоя.
type Options struct {
	Logger             *slog.Logger
	MaxUploadBytes     int64
	CORSAllowedOrigins []string
	AuthRatePerSecond  float64
	AuthBurst          int
	// адреса или подсети прокси, которым доверяются X-Forwarded-For и X-Real-IP
	TrustedProxies []string
}

// NewHandler создает новый Handler
func NewHandler(svc *service.Services, opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if opts.AuthRatePerSecond <= 0 {
		opts.AuthRatePerSecond = 1
	}
	if opts.AuthBurst <= 0 {
		opts.AuthBurst = 5
	}
	trusted, err := ParseTrustedProxies(opts.TrustedProxies)
	if err != nil {
		log.Warn("ignoring trusted proxies", "err", err)
		trusted = nil
	}
	return &Handler{
		svc:         svc,
		log:         log,
		opts:        opts,
		trusted:     trusted,
		authLimiter: newRateLimiter(opts.AuthRatePerSecond, opts.AuthBurst),
	}
}

// HealthHandler проверка живости, без авторизации
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ReadyHandler проверяет доступность базы
func (h *Handler) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Store.Ping(r.Context()); err != nil {
		h.log.Warn("readiness check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// decodeJSON читает тело запроса с ограничением размера.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, "failed to read request body", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid JSON format", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError отдаёт {"detail": ...}; внутренние ошибки логируются с причиной.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.log.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err)
	}
	if kind == apperr.KindUnauthenticated {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, kind.HTTPStatus(), map[string]string{"detail": apperr.Message(err)})
}

// pathID разбирает числовой параметр маршрута.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}
