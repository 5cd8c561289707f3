package waitlist

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/pkg/response"
	"github.com/quizhub/quizhub-api/internal/pkg/validator"
)

// JoinRequest adds an email to the waitlist
type JoinRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name" validate:"omitempty,max=100"`
}

// Handler handles waitlist HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates waitlist handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Join handles POST /waitlist
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	e, err := h.service.Join(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrAlreadyJoined:
			response.Conflict(w, "Email already on waitlist")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, e)
}

// Unsubscribe handles GET /waitlist/unsubscribe?token=...
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(r.URL.Query().Get("token"))
	if err != nil {
		response.BadRequest(w, "Invalid unsubscribe token")
		return
	}

	if err := h.service.Unsubscribe(r.Context(), token); err != nil {
		switch err {
		case ErrEntryNotFound:
			response.NotFound(w, "Waitlist entry not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": "unsubscribed"})
}

// ListSubscribed handles GET /admin/waitlist
func (h *Handler) ListSubscribed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.service.ListSubscribed(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, entries)
}
