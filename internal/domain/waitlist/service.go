package waitlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/pkg/email"
)

// Service handles waitlist business logic
type Service struct {
	repo   Repository
	email  *email.Service
	appURL string
}

// NewService creates waitlist service
func NewService(repo Repository, emailSvc *email.Service, appURL string) *Service {
	return &Service{
		repo:   repo,
		email:  emailSvc,
		appURL: appURL,
	}
}

// Join adds an email to the waitlist and sends the confirmation email
func (s *Service) Join(ctx context.Context, req *JoinRequest) (*Entry, error) {
	addr := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetByEmail(ctx, addr)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsSubscribed() {
		return nil, ErrAlreadyJoined
	}

	e := &Entry{
		ID:               uuid.New(),
		Email:            addr,
		Name:             strings.TrimSpace(req.Name),
		UnsubscribeToken: uuid.New(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	if s.email != nil {
		unsubscribeURL := fmt.Sprintf("%s/waitlist/unsubscribe?token=%s", s.appURL, e.UnsubscribeToken)
		s.email.SendWaitlistConfirmation(e.Email, e.Name, unsubscribeURL)
	}

	return e, nil
}

// Unsubscribe removes an entry via its emailed token
func (s *Service) Unsubscribe(ctx context.Context, token uuid.UUID) error {
	return s.repo.Unsubscribe(ctx, token)
}

// ListSubscribed returns active entries (admin)
func (s *Service) ListSubscribed(ctx context.Context, limit, offset int) ([]*Entry, error) {
	return s.repo.ListSubscribed(ctx, limit, offset)
}
