package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns payment routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Webhook is authenticated by signature, not by session
	r.Post("/webhook", h.Webhook)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/", h.InitiatePurchase)
		r.Get("/mine", h.ListMyPayments)
	})

	return r
}
