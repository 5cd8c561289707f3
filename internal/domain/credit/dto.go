package credit

import "github.com/google/uuid"

// GrantCreditsRequest is the admin top-up payload
type GrantCreditsRequest struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Amount      int       `json:"amount" validate:"required,gt=0"`
	Description string    `json:"description" validate:"omitempty,max=255"`
}

// BalanceResponse carries the current quiz credit balance
type BalanceResponse struct {
	Balance int `json:"balance"`
}
