package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/me/entitlements", h.GetMyEntitlements)
	r.Delete("/me", h.DeleteMe)
	r.Get("/{username}", h.GetProfile)

	return r
}

// AdminRoutes returns admin-only user routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Post("/{userID}/ban", h.SetBanned)
	r.Post("/{userID}/free-access", h.GrantFreeAccess)

	return r
}
