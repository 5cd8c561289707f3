package user

import (
	"context"

	"github.com/google/uuid"
)

// Service handles user business logic
type Service struct {
	repo Repository
}

// NewService creates user service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns a user's public profile by username
func (s *Service) GetProfile(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || u.IsDeleted {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetByID returns a user by id
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SetBanned bans or unbans a user (admin)
func (s *Service) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return s.repo.SetBanned(ctx, id, banned)
}

// GrantFreeAccess tops up a user's promotional counter (admin)
func (s *Service) GrantFreeAccess(ctx context.Context, id uuid.UUID, count int) error {
	return s.repo.GrantFreeAccess(ctx, id, count)
}

// Delete soft deletes a user account
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return s.repo.Delete(ctx, id)
}
