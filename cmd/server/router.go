package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/topspin/topspin-api/internal/api"
	apiMiddleware "github.com/topspin/topspin-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.MetricsMiddleware(app.metrics))

	authHandler := api.NewAuthHandler(app.accountService)
	analysisHandler := api.NewAnalysisHandler(app.analysisService)
	scoreHandler := api.NewScoreHandler(app.scoreService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users/me", authHandler.GetProfile)
			r.Patch("/users/me", authHandler.UpdateProfile)

			r.Post("/analysis/video", analysisHandler.Analyze)
			r.Get("/analysis/status", analysisHandler.TaskStatus)

			r.Get("/scores", scoreHandler.ListScores)
			r.Get("/scores/stats", scoreHandler.GetStats)
			r.Get("/scores/{id}", scoreHandler.GetScore)
			r.Delete("/scores/{id}", scoreHandler.DeleteScore)
		})
	})

	// Operational endpoints
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
