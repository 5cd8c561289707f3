package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quizhub/quizhub-api/internal/domain/packages"
	"github.com/quizhub/quizhub-api/internal/domain/user"
	"github.com/quizhub/quizhub-api/internal/pkg/email"
	"github.com/quizhub/quizhub-api/internal/pkg/webhook"
)

// CreditGranter tops up a user's quiz credit balance when a credits
// package is confirmed.
type CreditGranter interface {
	AddPurchased(ctx context.Context, userID uuid.UUID, amount int, description string) error
}

// Service handles payment business logic
type Service struct {
	repo          Repository
	userRepo      user.Repository
	packageRepo   packages.Repository
	credits       CreditGranter
	email         *email.Service
	webhookSecret string
}

// NewService creates payment service
func NewService(repo Repository, userRepo user.Repository, packageRepo packages.Repository, credits CreditGranter, emailSvc *email.Service, webhookSecret string) *Service {
	return &Service{
		repo:          repo,
		userRepo:      userRepo,
		packageRepo:   packageRepo,
		credits:       credits,
		email:         emailSvc,
		webhookSecret: webhookSecret,
	}
}

// InitiatePurchase creates a pending payment for a package and records it on
// the user. The payment is confirmed later through the provider webhook.
func (s *Service) InitiatePurchase(ctx context.Context, userID uuid.UUID, req *InitiatePurchaseRequest) (*Payment, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	pkg, err := s.packageRepo.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || !pkg.IsActive {
		return nil, packages.ErrPackageNotFound
	}

	p := &Payment{
		ID:        uuid.New(),
		UserID:    userID,
		PackageID: pkg.ID,
		Status:    StatusPending,
		Type:      string(pkg.Access),
		Amount:    pkg.Price,
		Currency:  req.Currency,
		Date:      time.Now(),
	}
	if req.Currency == "" {
		p.Currency = "USD"
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.userRepo.AppendPaymentID(ctx, userID, p.ID); err != nil {
		return nil, fmt.Errorf("append payment to user: %w", err)
	}

	return p, nil
}

// ConfirmWebhook processes a signed provider notification. The raw body is
// verified against the shared secret before any state changes.
func (s *Service) ConfirmWebhook(ctx context.Context, rawBody []byte, signature string, notif *WebhookNotification) error {
	if !webhook.VerifySignature(rawBody, signature, s.webhookSecret) {
		return ErrInvalidSignature
	}

	p, err := s.repo.GetByID(ctx, notif.PaymentID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPaymentNotFound
	}

	switch notif.Status {
	case "success":
		return s.confirmSuccess(ctx, p, notif)
	case "failed", "cancelled":
		return s.repo.MarkFailed(ctx, p.ID)
	default:
		return ErrUnknownStatus
	}
}

func (s *Service) confirmSuccess(ctx context.Context, p *Payment, notif *WebhookNotification) error {
	pkg, err := s.packageRepo.GetByID(ctx, p.PackageID)
	if err != nil {
		return err
	}
	if pkg == nil {
		return packages.ErrPackageNotFound
	}

	var endsAt *time.Time
	if exp := pkg.ExpiresAt(p.Date); !exp.IsZero() {
		endsAt = &exp
	}

	if err := s.repo.MarkSuccess(ctx, p.ID, endsAt); err != nil {
		return err
	}

	if notif.ExternalID != "" {
		// Provider reference is informational; losing it does not undo the payment.
		if err := s.repo.SetExternalID(ctx, p.ID, notif.ExternalID); err != nil {
			log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to store provider reference")
		}
	}

	if pkg.Access == packages.AccessCredits && pkg.CreditAmount > 0 {
		if err := s.credits.AddPurchased(ctx, p.UserID, pkg.CreditAmount, "package purchase: "+pkg.Name); err != nil {
			log.Error().Err(err).
				Str("payment_id", p.ID.String()).
				Str("user_id", p.UserID.String()).
				Msg("failed to grant purchased credits")
			return err
		}
	}

	s.sendReceipt(ctx, p, pkg, endsAt)

	return nil
}

func (s *Service) sendReceipt(ctx context.Context, p *Payment, pkg *packages.Package, endsAt *time.Time) {
	if s.email == nil {
		return
	}

	u, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil || u == nil {
		log.Warn().Err(err).Str("user_id", p.UserID.String()).Msg("skip receipt email, user lookup failed")
		return
	}

	ends := ""
	if endsAt != nil {
		ends = endsAt.Format("2 January 2006")
	}

	s.email.SendPaymentReceipt(u.Email, u.Username, pkg.Name, p.Amount, p.Currency, ends, pkg.CreditAmount)
}

// GetPayment returns a payment by id
func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// ListMyPayments returns the caller's payment history
func (s *Service) ListMyPayments(ctx context.Context, userID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}
