package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Foreman/internal/lifecycle"
)

func NewRouter(eng *lifecycle.Engine, adminToken string, rateLimit int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimit))

	projects := NewProjectsHandler(eng, adminToken)
	deliverables := NewDeliverablesHandler(eng)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ActorIDMiddleware)

		r.Post("/projects", projects.Create)
		r.Get("/projects", projects.List)
		r.Get("/projects/{id}", projects.Get)
		r.Get("/projects/{id}/completion", projects.Completion)
		r.Get("/projects/{id}/metrics", projects.Metrics)
		r.Get("/projects/{id}/audit", projects.Audit)
		r.Post("/projects/{id}/gates/run", projects.RunGates)
		r.Post("/projects/{id}/gates/approve", projects.ApproveGate)
		r.Post("/projects/{id}/transition", projects.Transition)

		r.Post("/deliverables/{id}/assign", deliverables.Assign)
		r.Post("/deliverables/{id}/complete", deliverables.Complete)
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
