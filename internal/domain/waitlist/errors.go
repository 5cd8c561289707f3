package waitlist

import "errors"

var (
	// ErrAlreadyJoined is returned when the email is already on the list
	ErrAlreadyJoined = errors.New("email already on waitlist")

	// ErrEntryNotFound is returned when no entry matches
	ErrEntryNotFound = errors.New("waitlist entry not found")
)
