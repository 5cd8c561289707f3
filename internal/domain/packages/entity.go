package packages

import (
	"time"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/pkg/database"
)

// Access represents what a package entitles its buyer to (matches package_access enum)
type Access string

const (
	AccessDuration Access = "duration"
	AccessCourse   Access = "course"
	AccessQuiz     Access = "quiz"
	AccessCredits  Access = "credits"
)

// Package is a purchasable entitlement template. Immutable after creation
// except administrative edits.
type Package struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Access      Access    `db:"access" json:"access"`

	// DurationDays is only meaningful when Access == "duration"
	DurationDays int `db:"duration_days" json:"duration_days,omitempty"`
	// CreditAmount is only meaningful when Access == "credits"
	CreditAmount int `db:"credit_amount" json:"credit_amount,omitempty"`
	// Courses is only meaningful when Access != "quiz"
	Courses database.UUIDArray `db:"courses" json:"courses,omitempty"`

	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExpiresAt returns when a purchase made at the given time stops being live,
// or zero time for packages that do not expire on their own.
func (p *Package) ExpiresAt(purchasedAt time.Time) time.Time {
	if p.Access != AccessDuration || p.DurationDays <= 0 {
		return time.Time{}
	}
	return purchasedAt.AddDate(0, 0, p.DurationDays)
}
