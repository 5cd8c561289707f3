package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns course routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.ListCourses)
	r.Get("/{courseID}", h.GetCourse)
	r.Get("/{courseID}/materials", h.ListMaterials)

	return r
}

// AdminRoutes returns admin-only course routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Post("/", h.CreateCourse)
	r.Patch("/{courseID}", h.UpdateCourse)
	r.Post("/{courseID}/cover", h.UploadCover)
	r.Post("/{courseID}/materials", h.AddMaterial)
	r.Delete("/materials/{materialID}", h.DeleteMaterial)

	return r
}
