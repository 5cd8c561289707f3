package packages

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/pkg/response"
	"github.com/quizhub/quizhub-api/internal/pkg/validator"
)

// Handler handles package HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates package handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// ListActive returns the purchasable catalog
// GET /packages
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.service.ListActive(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, pkgs)
}

// GetPackage returns a package by id
// GET /packages/{packageID}
func (h *Handler) GetPackage(w http.ResponseWriter, r *http.Request) {
	packageID, err := uuid.Parse(chi.URLParam(r, "packageID"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	p, err := h.service.GetPackage(r.Context(), packageID)
	if err != nil {
		switch err {
		case ErrPackageNotFound:
			response.NotFound(w, "Package not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, p)
}

// CreatePackage creates an entitlement template (admin)
// POST /admin/packages
func (h *Handler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req CreatePackageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	p, err := h.service.CreatePackage(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, p)
}

// SetActive toggles package availability (admin)
// POST /admin/packages/{packageID}/active
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	packageID, err := uuid.Parse(chi.URLParam(r, "packageID"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	var req SetActiveRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.SetActive(r.Context(), packageID, req.Active); err != nil {
		switch err {
		case ErrPackageNotFound:
			response.NotFound(w, "Package not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}
