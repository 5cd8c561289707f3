package credit

import (
	"net/http"
	"strconv"

	"github.com/quizhub/quizhub-api/internal/middleware"
	"github.com/quizhub/quizhub-api/internal/pkg/response"
	"github.com/quizhub/quizhub-api/internal/pkg/validator"
)

// Handler handles credit HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates credit handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// GetBalance returns the caller's quiz credit balance
// GET /credits/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, BalanceResponse{Balance: balance})
}

// ListTransactions returns the caller's ledger history
// GET /credits/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	transactions, err := h.service.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, transactions)
}

// GrantCredits tops up a user's balance (admin)
// POST /admin/credits/grant
func (h *Handler) GrantCredits(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	var req GrantCreditsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	if err := h.service.Grant(r.Context(), req.UserID, req.Amount, adminID, req.Description); err != nil {
		switch err {
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		case ErrInvalidAmount:
			response.BadRequest(w, "Amount must be greater than 0")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// SearchTransactions returns filtered ledger rows (admin)
// GET /admin/credits/transactions
func (h *Handler) SearchTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := SearchFilters{}
	if v := q.Get("user_id"); v != "" {
		filters.UserID = &v
	}
	if v := q.Get("tx_type"); v != "" {
		filters.TxType = &v
	}
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	filters.Offset, _ = strconv.Atoi(q.Get("offset"))

	transactions, err := h.service.SearchTransactions(r.Context(), filters)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, transactions)
}
