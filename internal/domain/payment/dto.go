package payment

import (
	"time"

	"github.com/google/uuid"
)

// InitiatePurchaseRequest starts a package purchase
type InitiatePurchaseRequest struct {
	PackageID uuid.UUID `json:"package_id" validate:"required"`
	Currency  string    `json:"currency" validate:"omitempty,len=3"`
}

// WebhookNotification is the provider callback body
type WebhookNotification struct {
	PaymentID  uuid.UUID `json:"payment_id" validate:"required"`
	Status     string    `json:"status" validate:"required"`
	ExternalID string    `json:"external_id"`
}

// PaymentResponse is the API representation of a payment
type PaymentResponse struct {
	ID        uuid.UUID  `json:"id"`
	PackageID uuid.UUID  `json:"package_id"`
	Status    Status     `json:"status"`
	Type      string     `json:"type"`
	Amount    float64    `json:"amount"`
	Currency  string     `json:"currency"`
	Date      time.Time  `json:"date"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

// ToResponse converts a payment to its API representation
func ToResponse(p *Payment) *PaymentResponse {
	resp := &PaymentResponse{
		ID:        p.ID,
		PackageID: p.PackageID,
		Status:    p.Status,
		Type:      p.Type,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Date:      p.Date,
	}
	if p.EndsAt.Valid {
		t := p.EndsAt.Time
		resp.EndsAt = &t
	}
	return resp
}

// ToResponseList converts payments to their API representation
func ToResponseList(payments []*Payment) []*PaymentResponse {
	out := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToResponse(p))
	}
	return out
}
