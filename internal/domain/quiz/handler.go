package quiz

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain/access"
	"github.com/quizhub/quizhub-api/internal/middleware"
	"github.com/quizhub/quizhub-api/internal/pkg/response"
	"github.com/quizhub/quizhub-api/internal/pkg/validator"
)

// Handler handles quiz HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates quiz handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// CreateQuiz creates a catalog entry (admin)
// POST /admin/quizzes
func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	q, err := h.service.CreateQuiz(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, q)
}

// GetQuiz returns a quiz by id
// GET /quizzes/{quizID}
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		response.BadRequest(w, "Invalid quiz ID")
		return
	}

	q, err := h.service.GetQuiz(r.Context(), quizID)
	if err != nil {
		switch err {
		case ErrQuizNotFound:
			response.NotFound(w, "Quiz not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, q)
}

// ListByCourse returns published quizzes for a course
// GET /quizzes?course_id=...
func (h *Handler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(r.URL.Query().Get("course_id"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	quizzes, err := h.service.ListByCourse(r.Context(), courseID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, quizzes)
}

// StartAttempt gates an attempt and returns the question set
// POST /quizzes/{quizID}/attempt
func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	userID := middleware.GetUserID(r.Context())

	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		response.BadRequest(w, "Invalid quiz ID")
		return
	}

	questions, err := h.service.StartAttempt(r.Context(), username, userID, quizID)
	if err != nil {
		writeQuizError(w, err)
		return
	}

	response.OK(w, questions)
}

// ListMyAttempts returns the caller's attempt history
// GET /quizzes/attempts/mine
func (h *Handler) ListMyAttempts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	attempts, err := h.service.ListMyAttempts(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, attempts)
}

// GenerateQuestions runs gated AI question generation
// POST /quizzes/{quizID}/generate
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		response.BadRequest(w, "Invalid quiz ID")
		return
	}

	var req GenerateQuestionsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	questions, err := h.service.GenerateQuestions(r.Context(), username, quizID, &req)
	if err != nil {
		writeQuizError(w, err)
		return
	}

	response.Created(w, questions)
}

// ListQuestions returns a quiz's questions; moderators see pending ones
// GET /quizzes/{quizID}/questions
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		response.BadRequest(w, "Invalid quiz ID")
		return
	}

	role := middleware.GetRole(r.Context())
	includePending := role == "moderator" || role == "admin"

	questions, err := h.service.ListQuestions(r.Context(), quizID, includePending)
	if err != nil {
		switch err {
		case ErrQuizNotFound:
			response.NotFound(w, "Quiz not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, questions)
}

// ModerateQuestion records a verdict on a pending question (moderator)
// POST /quizzes/questions/{questionID}/moderate
func (h *Handler) ModerateQuestion(w http.ResponseWriter, r *http.Request) {
	moderatorID := middleware.GetUserID(r.Context())

	questionID, err := uuid.Parse(chi.URLParam(r, "questionID"))
	if err != nil {
		response.BadRequest(w, "Invalid question ID")
		return
	}

	var req ModerateQuestionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.ModerateQuestion(r.Context(), questionID, moderatorID, req.Approve); err != nil {
		switch err {
		case ErrQuestionNotFound:
			response.NotFound(w, "Question not found")
		case ErrAlreadyModerated:
			response.Conflict(w, "Question already moderated")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// writeQuizError maps quiz and access errors onto HTTP responses
func writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuizNotFound), errors.Is(err, access.ErrQuizNotFound):
		response.NotFound(w, "Quiz not found")
	case errors.Is(err, access.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, access.ErrUserBanned):
		response.Forbidden(w, "Your account has been banned")
	case errors.Is(err, access.ErrSubscriptionRequired):
		response.Error(w, http.StatusPaymentRequired, "SUBSCRIPTION_REQUIRED", "Active subscription required")
	case errors.Is(err, access.ErrInsufficientCredits):
		response.Error(w, http.StatusPaymentRequired, "INSUFFICIENT_CREDITS", "Not enough quiz credits")
	case errors.Is(err, access.ErrAccessDenied):
		response.Forbidden(w, "Access denied")
	case errors.Is(err, ErrGenerationFailed):
		response.Error(w, http.StatusBadGateway, "GENERATION_FAILED", "Question generation failed")
	default:
		response.InternalError(w)
	}
}
