package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/NeuroFlow/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router. Turn
// endpoints are rate limited per IP because each turn fans out into several
// generation calls.
func MountRoutes(r chi.Router, h *Handlers, limiter *middleware.RateLimiter) {
	r.Get("/healthz", h.HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
		})

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.HandleSessionState)
			r.With(limiter.Handler).Post("/turns", h.HandleTurn)
			r.With(limiter.Handler).Post("/resume", h.HandleResume)
		})
	})
}
