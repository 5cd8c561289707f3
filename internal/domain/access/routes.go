package access

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns access routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/quiz/{quizID}", h.AuthorizeQuiz)
	r.Post("/ai", h.AuthorizeAI)
	r.Post("/reconcile", h.Reconcile)

	return r
}

// AdminRoutes returns admin-only access routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Post("/reconcile/{userID}", h.ReconcileUser)

	return r
}
