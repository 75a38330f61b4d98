package handlers

import (
	"net/http"

	"academic/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes собирает роутер API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(rememberPeer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(h.cors)
	r.Use(metrics.Middleware)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)
		r.Get("/ready", h.ReadyHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.limit(h.authLimiter))
			r.Post("/register", h.RegisterHandler)
			r.Post("/login", h.LoginHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			// пользователи
			r.Get("/users/me", h.GetMeHandler)
			r.Put("/users/me", h.UpdateMeHandler)
			r.Get("/users", h.ListUsersHandler)
			r.Post("/users", h.CreateUserHandler)
			r.Get("/users/{userId}", h.GetUserHandler)
			r.Put("/users/{userId}", h.UpdateUserHandler)
			r.Delete("/users/{userId}", h.DeleteUserHandler)

			// объявления
			r.Post("/listings", h.CreateListingHandler)
			r.Get("/listings", h.ListListingsHandler)
			r.Get("/listings/{listingId}", h.GetListingHandler)
			r.Put("/listings/{listingId}", h.UpdateListingHandler)
			r.Delete("/listings/{listingId}", h.DeleteListingHandler)

			// заявки
			r.Post("/applications", h.CreateApplicationHandler)
			r.Get("/applications", h.ListApplicationsHandler)
			r.Get("/applications/{applicationId}", h.GetApplicationHandler)
			r.Put("/applications/{applicationId}", h.UpdateApplicationHandler)
			r.Put("/applications/{applicationId}/status", h.SetApplicationStatusHandler)
			r.Post("/applications/{applicationId}/documents", h.UploadDocumentsHandler)
			r.Get("/applications/{applicationId}/documents/{slot}", h.DownloadDocumentHandler)

			// оценки
			r.Post("/evaluations", h.CreateEvaluationHandler)
			r.Get("/evaluations", h.ListEvaluationsHandler)
			r.Get("/evaluations/{evaluationId}", h.GetEvaluationHandler)
			r.Put("/evaluations/{evaluationId}", h.UpdateEvaluationHandler)
			r.Delete("/evaluations/{evaluationId}", h.DeleteEvaluationHandler)

			// критерии
			r.Post("/criteria", h.CreateCriteriaHandler)
			r.Get("/criteria", h.ListCriteriaHandler)
			r.Get("/criteria/{criteriaId}", h.GetCriteriaHandler)
			r.Put("/criteria/{criteriaId}", h.UpdateCriteriaHandler)
			r.Delete("/criteria/{criteriaId}", h.DeleteCriteriaHandler)

			// жюри
			r.Get("/jury/members", h.ListJuryMembersHandler)
			r.Post("/jury/assignments", h.CreateJuryAssignmentHandler)
			r.Get("/jury/assignments", h.ListJuryAssignmentsHandler)
			r.Get("/jury/assignments/{assignmentId}", h.GetJuryAssignmentHandler)
			r.Delete("/jury/assignments/{assignmentId}", h.DeleteJuryAssignmentHandler)
		})
	})

	return r
}
