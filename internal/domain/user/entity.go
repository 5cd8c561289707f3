package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/pkg/database"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleStudent   Role = "student"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// AccessType represents the entitlement mode governing how quiz/AI access is gated
// (matches access_type enum)
type AccessType string

const (
	AccessDuration AccessType = "duration"
	AccessCourse   AccessType = "course"
	AccessQuiz     AccessType = "quiz"
	AccessDefault  AccessType = "default"
)

// IsValid reports whether the access type is one of the four enumerated values.
// Anything else reaching the authorization code is a data-integrity violation.
func (a AccessType) IsValid() bool {
	switch a {
	case AccessDuration, AccessCourse, AccessQuiz, AccessDefault:
		return true
	}
	return false
}

// User represents a user account with its entitlement state (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	IsBanned     bool      `db:"is_banned"`
	IsDeleted    bool      `db:"is_deleted"`

	// Entitlement state
	AccessType      AccessType `db:"access_type"`
	IsSubscribed    bool       `db:"is_subscribed"`
	QuizCredits     int        `db:"quiz_credits"`
	HasFreeAccess   bool       `db:"has_free_access"`
	FreeAccessCount int        `db:"free_access_count"`

	// References
	PackageIDs database.UUIDArray `db:"package_ids"`
	PaymentIDs database.UUIDArray `db:"payment_ids"`
	Courses    database.UUIDArray `db:"courses"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator returns true if user is a moderator
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// IsActive returns true if user is neither banned nor soft-deleted
func (u *User) IsActive() bool {
	return !u.IsBanned && !u.IsDeleted
}

// ValidRoles returns list of valid roles for registration
func ValidRoles() []Role {
	return []Role{RoleStudent, RoleModerator}
}

// IsValidRole checks if role is valid for registration
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if string(r) == role {
			return true
		}
	}
	return false
}
