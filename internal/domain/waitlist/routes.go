package waitlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns public waitlist routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Join)
	r.Get("/unsubscribe", h.Unsubscribe)

	return r
}

// AdminRoutes returns admin-only waitlist routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Get("/", h.ListSubscribed)

	return r
}
