package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quizhub/quizhub-api/internal/pkg/database"
)

const paymentColumns = `id, user_id, package_id, status, type, amount, currency,
	       date, ends_at, provider, external_id, created_at, updated_at`

// Repository defines payment data access
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByExternalID(ctx context.Context, externalID string) (*Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Payment, error)
	// ListSuccessfulByIDs returns only confirmed payments among the given ids,
	// ordered by purchase date ascending.
	ListSuccessfulByIDs(ctx context.Context, ids []uuid.UUID) ([]*Payment, error)
	// MarkSuccess flips a pending payment to success and records its computed
	// expiry. Returns ErrAlreadyProcessed if the payment left pending already.
	MarkSuccess(ctx context.Context, id uuid.UUID, endsAt *time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	SetExternalID(ctx context.Context, id uuid.UUID, externalID string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new payment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (id, user_id, package_id, status, type, amount, currency, date, ends_at, provider, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.PackageID,
		p.Status,
		p.Type,
		p.Amount,
		p.Currency,
		p.Date,
		p.EndsAt,
		p.Provider,
		p.ExternalID,
	)
	if err != nil {
		return fmt.Errorf("payment repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByExternalID(ctx context.Context, externalID string) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_id = $1`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`

	out := make([]*Payment, 0)
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("payment repository list by user: %w", err)
	}

	return out, nil
}

func (r *repository) ListSuccessfulByIDs(ctx context.Context, ids []uuid.UUID) ([]*Payment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = ANY($1::uuid[]) AND status = 'success'
		ORDER BY date`

	out := make([]*Payment, 0, len(ids))
	if err := r.db.SelectContext(ctx, &out, query, database.UUIDArray(ids)); err != nil {
		return nil, fmt.Errorf("payment repository list successful: %w", err)
	}

	return out, nil
}

func (r *repository) MarkSuccess(ctx context.Context, id uuid.UUID, endsAt *time.Time) error {
	var ends sql.NullTime
	if endsAt != nil {
		ends = sql.NullTime{Time: *endsAt, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'success', ends_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id, ends)
	if err != nil {
		return fmt.Errorf("payment repository mark success: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyProcessed
	}

	return nil
}

func (r *repository) SetExternalID(ctx context.Context, id uuid.UUID, externalID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET external_id = $2, updated_at = NOW() WHERE id = $1
	`, id, externalID)
	if err != nil {
		return fmt.Errorf("payment repository set external id: %w", err)
	}
	return nil
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'failed', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return fmt.Errorf("payment repository mark failed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyProcessed
	}

	return nil
}
