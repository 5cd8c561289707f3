package payment

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/quizhub/quizhub-api/internal/domain/packages"
	"github.com/quizhub/quizhub-api/internal/domain/user"
	"github.com/quizhub/quizhub-api/internal/middleware"
	"github.com/quizhub/quizhub-api/internal/pkg/errorhandler"
	"github.com/quizhub/quizhub-api/internal/pkg/response"
	"github.com/quizhub/quizhub-api/internal/pkg/validator"
)

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// InitiatePurchase starts a package purchase
// POST /payments
func (h *Handler) InitiatePurchase(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req InitiatePurchaseRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	p, err := h.service.InitiatePurchase(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case user.ErrUserNotFound:
			response.NotFound(w, "User not found")
		case packages.ErrPackageNotFound:
			response.NotFound(w, "Package not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ToResponse(p))
}

// ListMyPayments returns the caller's payment history
// GET /payments/mine
func (h *Handler) ListMyPayments(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	payments, err := h.service.ListMyPayments(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, ToResponseList(payments))
}

// Webhook receives signed provider notifications
// POST /payments/webhook
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	var notif WebhookNotification
	if err := json.Unmarshal(body, &notif); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&notif); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	signature := r.Header.Get("X-Signature")

	if err := h.service.ConfirmWebhook(r.Context(), body, signature, &notif); err != nil {
		switch err {
		case ErrInvalidSignature:
			response.Unauthorized(w, "Invalid signature")
		case ErrPaymentNotFound:
			response.NotFound(w, "Payment not found")
		case ErrAlreadyProcessed:
			// Idempotent: repeated notification for a settled payment is not a failure.
			response.OK(w, map[string]string{"status": "already_processed"})
		case ErrUnknownStatus:
			response.BadRequest(w, "Unknown payment status")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "WEBHOOK_ERROR", "Failed to process payment notification", err)
		}
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}
