package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines waitlist data access
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByEmail(ctx context.Context, email string) (*Entry, error)
	// Unsubscribe marks the entry matching the token as unsubscribed.
	Unsubscribe(ctx context.Context, token uuid.UUID) error
	ListSubscribed(ctx context.Context, limit, offset int) ([]*Entry, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new waitlist repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO waitlist_entries (id, email, name, unsubscribe_token)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, e.ID, e.Email, e.Name, e.UnsubscribeToken)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyJoined
		}
		return fmt.Errorf("waitlist repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Entry, error) {
	query := `
		SELECT id, email, name, unsubscribe_token, unsubscribed_at, created_at
		FROM waitlist_entries WHERE email = $1
	`

	var e Entry
	err := r.db.GetContext(ctx, &e, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &e, nil
}

func (r *repository) Unsubscribe(ctx context.Context, token uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE waitlist_entries
		SET unsubscribed_at = NOW()
		WHERE unsubscribe_token = $1 AND unsubscribed_at IS NULL
	`, token)
	if err != nil {
		return fmt.Errorf("waitlist repository unsubscribe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *repository) ListSubscribed(ctx context.Context, limit, offset int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	out := make([]*Entry, 0)
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, email, name, unsubscribe_token, unsubscribed_at, created_at
		FROM waitlist_entries
		WHERE unsubscribed_at IS NULL
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("waitlist repository list: %w", err)
	}

	return out, nil
}
