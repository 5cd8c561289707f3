package payment

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents payment status
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Payment represents a purchase of a package. Created pending by the
// initiation flow, flipped to success/failed by the gateway webhook, and
// consumed read-only by package reconciliation.
type Payment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	PackageID uuid.UUID `db:"package_id" json:"package_id"`
	Status    Status    `db:"status" json:"status"`

	// Type mirrors the package access at purchase time ("duration", "course",
	// "quiz", "credits") or "default" when unknown.
	Type string `db:"type" json:"type"`

	Amount   float64 `db:"amount" json:"amount"`
	Currency string  `db:"currency" json:"currency"`

	// Date is the purchase timestamp; EndsAt the computed expiry (nullable).
	Date   time.Time    `db:"date" json:"date"`
	EndsAt sql.NullTime `db:"ends_at" json:"ends_at,omitempty"`

	Provider   sql.NullString `db:"provider" json:"provider,omitempty"`
	ExternalID sql.NullString `db:"external_id" json:"external_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsSuccessful checks if payment has been confirmed
func (p *Payment) IsSuccessful() bool {
	return p.Status == StatusSuccess
}

// IsExpired reports whether the payment-level expiry has passed.
// A payment without ends_at never expires on its own.
func (p *Payment) IsExpired(now time.Time) bool {
	return p.EndsAt.Valid && !p.EndsAt.Time.After(now)
}
