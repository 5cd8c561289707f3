package access

import "errors"

var (
	// ErrUserNotFound is returned when the user is missing or soft-deleted
	ErrUserNotFound = errors.New("user not found")

	// ErrQuizNotFound is returned when the quiz does not exist
	ErrQuizNotFound = errors.New("quiz not found")

	// ErrUserBanned is returned for banned accounts
	ErrUserBanned = errors.New("user is banned")

	// ErrSubscriptionRequired is returned when a duration plan has lapsed
	ErrSubscriptionRequired = errors.New("subscription required")

	// ErrInsufficientCredits is returned when the balance cannot cover the cost
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrAccessDenied is the generic denial for users with no applicable entitlement
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidAccessType indicates an access type outside the enum reached
	// the decision code. This is a data integrity violation, not user error.
	ErrInvalidAccessType = errors.New("invalid access type")

	// ErrReconciliation wraps a persistence failure during package reconciliation
	ErrReconciliation = errors.New("package reconciliation failed")

	// ErrAccessValidation wraps a reconciliation or store failure that aborted
	// an authorization decision
	ErrAccessValidation = errors.New("access validation failed")
)
