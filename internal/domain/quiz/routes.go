package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns quiz routes
func (h *Handler) Routes(authMiddleware, moderatorMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.ListByCourse)
	r.Get("/{quizID}", h.GetQuiz)
	r.Get("/{quizID}/questions", h.ListQuestions)
	r.Post("/{quizID}/attempt", h.StartAttempt)
	r.Post("/{quizID}/generate", h.GenerateQuestions)
	r.Get("/attempts/mine", h.ListMyAttempts)

	r.Group(func(r chi.Router) {
		r.Use(moderatorMiddleware)
		r.Post("/questions/{questionID}/moderate", h.ModerateQuestion)
	})

	return r
}

// AdminRoutes returns admin-only quiz routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Post("/", h.CreateQuiz)

	return r
}
