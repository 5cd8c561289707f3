package packages

import (
	"context"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/pkg/database"
)

// Service handles package business logic
type Service struct {
	repo Repository
}

// NewService creates package service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreatePackage creates an entitlement template (admin)
func (s *Service) CreatePackage(ctx context.Context, req *CreatePackageRequest) (*Package, error) {
	p := &Package{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Access:       Access(req.Access),
		DurationDays: req.DurationDays,
		CreditAmount: req.CreditAmount,
		Courses:      database.UUIDArray(req.Courses),
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetPackage returns a package by id
func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPackageNotFound
	}
	return p, nil
}

// ListActive returns the purchasable catalog
func (s *Service) ListActive(ctx context.Context) ([]*Package, error) {
	return s.repo.ListActive(ctx)
}

// SetActive toggles package availability (admin)
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPackageNotFound
	}
	return s.repo.SetActive(ctx, id, active)
}
