package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Routes(m *Middleware, corsOrigins []string, rateLimitRPM int) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(m.RequestID)
	r.Use(m.RequestLogger)
	r.Use(m.Recoverer)
	r.Use(m.SecurityHeaders)
	r.Use(middleware.Heartbeat("/ping"))

	r.Use(m.CORS(corsOrigins))
	r.Use(m.RateLimit(rateLimitRPM))

	// Health endpoints
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	r.Route("/api", func(r chi.Router) {
		// The websocket upgrade cannot go through the timeout or gzip
		// wrappers, so it sits outside the JSON group.
		r.Get("/ws", h.HandleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(m.Compress)
			r.Use(m.Timeout(15 * time.Second))

			// Reference data
			r.Get("/tokens", h.ListTokens)
			r.Get("/markets", h.ListMarkets)
			r.Get("/markets/{id}", h.GetMarket)

			// Watchlists
			r.Route("/watchlists", func(r chi.Router) {
				r.Get("/", h.ListWatchlists)
				r.Post("/", h.CreateWatchlist)
				r.Get("/{id}", h.GetWatchlist)
				r.Patch("/{id}", h.PatchWatchlist)
				r.Delete("/{id}", h.DeleteWatchlist)
			})

			// System
			r.Get("/health", h.Health)
			r.Get("/system/info", h.SystemInfo)
			r.Post("/system/reset", h.ResetDemoData)
		})
	})

	return r
}
