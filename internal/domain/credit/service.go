package credit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Service handles quiz credit business logic
type Service struct {
	repo Repository
}

// NewService creates credit service
func NewService(db *sqlx.DB) *Service {
	return &Service{
		repo: NewRepository(db),
	}
}

// Deduct atomically debits the caller's quiz credit balance
func (s *Service) Deduct(ctx context.Context, userID uuid.UUID, amount int, meta TxMeta) error {
	return s.repo.Deduct(ctx, userID, amount, meta)
}

// DeductWithFloor debits amount only when the balance is at least floor
func (s *Service) DeductWithFloor(ctx context.Context, userID uuid.UUID, amount, floor int, meta TxMeta) error {
	return s.repo.DeductWithFloor(ctx, userID, amount, floor, meta)
}

// AddPurchased credits a balance after a confirmed credits-package payment
func (s *Service) AddPurchased(ctx context.Context, userID uuid.UUID, amount int, description string) error {
	return s.repo.Add(ctx, userID, amount, TxTypePurchase, TxMeta{Description: description})
}

// Grant credits a balance on behalf of an administrator
func (s *Service) Grant(ctx context.Context, userID uuid.UUID, amount int, adminID uuid.UUID, description string) error {
	meta := TxMeta{
		RelatedEntityType: "admin",
		RelatedEntityID:   adminID,
		Description:       description,
	}
	return s.repo.Add(ctx, userID, amount, TxTypeAdminGrant, meta)
}

// GetBalance returns the current quiz credit balance for a user
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, userID)
}

// ListTransactions returns paginated ledger history for a user
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 20
	}

	return s.repo.ListTransactions(ctx, userID, Pagination{Limit: limit, Offset: offset})
}

// SearchTransactions returns filtered ledger rows (admin use)
func (s *Service) SearchTransactions(ctx context.Context, filters SearchFilters) ([]Transaction, error) {
	return s.repo.SearchTransactions(ctx, filters)
}
