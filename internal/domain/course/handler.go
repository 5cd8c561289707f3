package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/middleware"
	"github.com/quizhub/quizhub-api/internal/pkg/response"
	"github.com/quizhub/quizhub-api/internal/pkg/validator"
)

const maxUploadMemory = 32 << 20

// Handler handles course HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates course handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// ListCourses returns the course catalog
// GET /courses
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	includeUnpublished := middleware.GetRole(r.Context()) == "admin"

	courses, err := h.service.ListCourses(r.Context(), includeUnpublished)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, courses)
}

// GetCourse returns a course by id
// GET /courses/{courseID}
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	c, err := h.service.GetCourse(r.Context(), courseID)
	if err != nil {
		switch err {
		case ErrCourseNotFound:
			response.NotFound(w, "Course not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, c)
}

// CreateCourse creates a course (admin)
// POST /admin/courses
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	c, err := h.service.CreateCourse(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, c)
}

// UpdateCourse edits a course (admin)
// PATCH /admin/courses/{courseID}
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	var req UpdateCourseRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	c, err := h.service.UpdateCourse(r.Context(), courseID, &req)
	if err != nil {
		switch err {
		case ErrCourseNotFound:
			response.NotFound(w, "Course not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, c)
}

// UploadCover uploads and processes a course cover image (admin)
// POST /admin/courses/{courseID}/cover
func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		response.BadRequest(w, "Missing cover file")
		return
	}
	defer file.Close()

	c, err := h.service.UploadCover(r.Context(), courseID, file, header)
	if err != nil {
		writeCourseError(w, err)
		return
	}

	response.OK(w, c)
}

// AddMaterial attaches a downloadable file to a course (admin)
// POST /admin/courses/{courseID}/materials
func (h *Handler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing material file")
		return
	}
	defer file.Close()

	m, err := h.service.AddMaterial(r.Context(), courseID, file, header)
	if err != nil {
		writeCourseError(w, err)
		return
	}

	response.Created(w, m)
}

// ListMaterials returns a course's materials
// GET /courses/{courseID}/materials
func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	materials, err := h.service.ListMaterials(r.Context(), courseID)
	if err != nil {
		switch err {
		case ErrCourseNotFound:
			response.NotFound(w, "Course not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, materials)
}

// DeleteMaterial removes a material (admin)
// DELETE /admin/courses/materials/{materialID}
func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(chi.URLParam(r, "materialID"))
	if err != nil {
		response.BadRequest(w, "Invalid material ID")
		return
	}

	if err := h.service.DeleteMaterial(r.Context(), materialID); err != nil {
		switch err {
		case ErrMaterialNotFound:
			response.NotFound(w, "Material not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

func writeCourseError(w http.ResponseWriter, err error) {
	switch err {
	case ErrCourseNotFound:
		response.NotFound(w, "Course not found")
	case ErrFileTooLarge:
		response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File too large")
	case ErrInvalidFileType:
		response.BadRequest(w, "Invalid file type")
	default:
		response.InternalError(w)
	}
}
