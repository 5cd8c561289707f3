package packages

import "github.com/google/uuid"

// CreatePackageRequest creates an entitlement template (admin)
type CreatePackageRequest struct {
	Name         string      `json:"name" validate:"required,min=3,max=200"`
	Description  string      `json:"description" validate:"omitempty,max=2000"`
	Price        float64     `json:"price" validate:"required,gt=0"`
	Access       string      `json:"access" validate:"required,package_access"`
	DurationDays int         `json:"duration_days" validate:"omitempty,gt=0"`
	CreditAmount int         `json:"credit_amount" validate:"omitempty,gt=0"`
	Courses      []uuid.UUID `json:"courses"`
}

// SetActiveRequest toggles package availability (admin)
type SetActiveRequest struct {
	Active bool `json:"active"`
}
