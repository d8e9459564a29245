/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Lightweight, context-based, middleware support, RESTful route patterns.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for downstream reporting UIs

ROUTE GROUPS:
  /api/clients/*    Client directory + per-client recalculation
  /api/anomalies    Monthly anomaly report
  /api/holidays     Holiday table slice
  /api/weeks        Incomplete-week analysis
  /api/admin/*      Batch recalculation, demo seed
  /api/health       Liveness

SECURITY NOTE:
  No authentication middleware. The engine sits behind the platform
  gateway, which owns auth.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Get("/{id}/dates", h.GetDates)
			r.Post("/{id}/recalculate", h.RecalculateClient)
		})

		r.Get("/anomalies", h.GetAnomalies)
		r.Get("/holidays", h.ListHolidays)
		r.Get("/weeks", h.GetWeekInfo)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/recalculate", h.RecalculateAll)
			r.Post("/seed", h.LoadSeed)
		})
	})

	return r
}
