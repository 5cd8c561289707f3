package packages

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns package routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.ListActive)
	r.Get("/{packageID}", h.GetPackage)

	return r
}

// AdminRoutes returns admin-only package routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Post("/", h.CreatePackage)
	r.Post("/{packageID}/active", h.SetActive)

	return r
}
