package course

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quizhub/quizhub-api/internal/pkg/imaging"
	"github.com/quizhub/quizhub-api/internal/pkg/storage"
)

// Service handles course business logic
type Service struct {
	repo      Repository
	storage   storage.Storage
	processor *imaging.Processor
}

// NewService creates course service
func NewService(repo Repository, st storage.Storage) *Service {
	return &Service{
		repo:      repo,
		storage:   st,
		processor: imaging.NewProcessor(imaging.CoverConfig()),
	}
}

// CreateCourse creates a course (admin)
func (s *Service) CreateCourse(ctx context.Context, req *CreateCourseRequest) (*Course, error) {
	c := &Course{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		IsPublished: req.IsPublished,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// GetCourse returns a course by id with its public cover URL resolved
func (s *Service) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	s.resolveCover(c)
	return c, nil
}

// ListCourses returns courses; admins see unpublished ones too
func (s *Service) ListCourses(ctx context.Context, includeUnpublished bool) ([]*Course, error) {
	courses, err := s.repo.List(ctx, !includeUnpublished)
	if err != nil {
		return nil, err
	}

	for _, c := range courses {
		s.resolveCover(c)
	}
	return courses, nil
}

// UpdateCourse edits a course (admin)
func (s *Service) UpdateCourse(ctx context.Context, id uuid.UUID, req *UpdateCourseRequest) (*Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	if req.Title != "" {
		c.Title = req.Title
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.IsPublished != nil {
		c.IsPublished = *req.IsPublished
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.resolveCover(c)
	return c, nil
}

// UploadCover processes and stores a course cover image. The image is
// resized, a thumbnail variant is stored next to the original.
func (s *Service) UploadCover(ctx context.Context, courseID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*Course, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	if header.Size > storage.MaxFileSizes[storage.CategoryCover] {
		return nil, ErrFileTooLarge
	}
	if !imaging.ValidateType(header.Filename) {
		return nil, ErrInvalidFileType
	}

	processed, err := s.processor.Process(file, header.Filename)
	if err != nil {
		return nil, fmt.Errorf("process cover: %w", err)
	}

	key := fmt.Sprintf("courses/%s/cover", courseID.String())
	thumbKey := key + "_thumb"

	if err := s.storage.Put(ctx, key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store cover: %w", err)
	}
	if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		log.Warn().Err(err).Str("course_id", courseID.String()).Msg("failed to store cover thumbnail")
	}

	if err := s.repo.SetCoverKey(ctx, courseID, key); err != nil {
		return nil, err
	}

	c.CoverKey.String = key
	c.CoverKey.Valid = true
	s.resolveCover(c)
	return c, nil
}

// AddMaterial stores a downloadable file attached to a course
func (s *Service) AddMaterial(ctx context.Context, courseID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*Material, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	// MIME type is sniffed from content, not trusted from the header
	buf, contentType, err := storage.ValidateAndBuffer(file, storage.CategoryMaterial)
	if err != nil {
		switch err {
		case storage.ErrFileTooLarge:
			return nil, ErrFileTooLarge
		case storage.ErrInvalidMimeType, storage.ErrEmptyFile:
			return nil, ErrInvalidFileType
		default:
			return nil, fmt.Errorf("validate material: %w", err)
		}
	}

	m := &Material{
		ID:       uuid.New(),
		CourseID: courseID,
		Name:     header.Filename,
		MimeType: contentType,
		Size:     int64(buf.Len()),
	}
	m.Key = fmt.Sprintf("courses/%s/materials/%s", courseID.String(), m.ID.String())

	if err := s.storage.Put(ctx, m.Key, buf, contentType); err != nil {
		return nil, fmt.Errorf("store material: %w", err)
	}

	if err := s.repo.CreateMaterial(ctx, m); err != nil {
		return nil, err
	}

	m.URL = s.storage.GetURL(m.Key)
	return m, nil
}

// ListMaterials returns a course's materials with URLs resolved
func (s *Service) ListMaterials(ctx context.Context, courseID uuid.UUID) ([]*Material, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	materials, err := s.repo.ListMaterials(ctx, courseID)
	if err != nil {
		return nil, err
	}

	for _, m := range materials {
		m.URL = s.storage.GetURL(m.Key)
	}
	return materials, nil
}

// DeleteMaterial removes a material and its stored file
func (s *Service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.GetMaterial(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMaterialNotFound
	}

	if err := s.repo.DeleteMaterial(ctx, id); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, m.Key); err != nil {
		log.Warn().Err(err).Str("key", m.Key).Msg("failed to delete stored material")
	}

	return nil
}

func (s *Service) resolveCover(c *Course) {
	if c.CoverKey.Valid {
		c.CoverURL = s.storage.GetURL(c.CoverKey.String)
	}
}
