// Package metrics содержит коллекторы Prometheus сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academic_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "academic_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	applicationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academic_applications_submitted_total",
		Help: "Application submissions by outcome",
	}, []string{"result"})

	applicationStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academic_application_status_changes_total",
		Help: "Application status overwrites by new status",
	}, []string{"status"})

	evaluationsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "academic_evaluations_completed_total",
		Help: "Evaluations whose completed flag was set",
	})

	documentsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academic_documents_stored_total",
		Help: "Stored application documents by slot",
	}, []string{"slot"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academic_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveApplicationSubmitted(result string) {
	applicationsSubmitted.WithLabelValues(result).Inc()
}

func ObserveStatusChange(status string) {
	applicationStatusChanges.WithLabelValues(status).Inc()
}

func ObserveEvaluationCompleted() {
	evaluationsCompleted.Inc()
}

func ObserveDocumentStored(slot string) {
	documentsStored.WithLabelValues(slot).Inc()
}

func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// Middleware пишет метрики запроса, путь берётся из шаблона маршрута chi.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ObserveHTTPRequest(r.Method, route, strconv.Itoa(status), time.Since(start))
	})
}
