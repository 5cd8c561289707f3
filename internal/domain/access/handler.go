package access

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/middleware"
	"github.com/quizhub/quizhub-api/internal/pkg/response"
)

// Handler handles access HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates access handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// AuthorizeQuiz checks and settles quiz access for the caller
// POST /access/quiz/{quizID}
func (h *Handler) AuthorizeQuiz(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		response.BadRequest(w, "Invalid quiz ID")
		return
	}

	if err := h.service.AuthorizeQuizAccess(r.Context(), username, quizID); err != nil {
		writeAccessError(w, err)
		return
	}

	response.OK(w, DecisionResponse{Allowed: true})
}

// AuthorizeAI checks and settles AI generation access for the caller
// POST /access/ai
func (h *Handler) AuthorizeAI(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())

	if err := h.service.AuthorizeAIAccess(r.Context(), username); err != nil {
		writeAccessError(w, err)
		return
	}

	response.OK(w, DecisionResponse{Allowed: true})
}

// Reconcile refreshes the caller's entitlement state
// POST /access/reconcile
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	u, err := h.service.ReconcilePackages(r.Context(), userID)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	response.OK(w, ToEntitlementResponse(u))
}

// ReconcileUser refreshes another user's entitlement state (admin)
// POST /admin/access/reconcile/{userID}
func (h *Handler) ReconcileUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	u, err := h.service.ReconcilePackages(r.Context(), userID)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	response.OK(w, ToEntitlementResponse(u))
}

// writeAccessError maps the typed denial reasons onto HTTP responses
func writeAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, ErrQuizNotFound):
		response.NotFound(w, "Quiz not found")
	case errors.Is(err, ErrUserBanned):
		response.Forbidden(w, "Your account has been banned")
	case errors.Is(err, ErrSubscriptionRequired):
		response.Error(w, http.StatusPaymentRequired, "SUBSCRIPTION_REQUIRED", "Active subscription required")
	case errors.Is(err, ErrInsufficientCredits):
		response.Error(w, http.StatusPaymentRequired, "INSUFFICIENT_CREDITS", "Not enough quiz credits")
	case errors.Is(err, ErrAccessDenied):
		response.Forbidden(w, "Access denied")
	case errors.Is(err, ErrInvalidAccessType):
		response.InternalError(w)
	default:
		response.InternalError(w)
	}
}
