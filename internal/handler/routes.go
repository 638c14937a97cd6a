package handler

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRosterRoutes registers the roster endpoints.
func RegisterRosterRoutes(r chi.Router, h *RosterHandler) {
	r.Route("/rosters", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
	})
}
