package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")

	// ErrFreeAccessUnavailable is returned when the promotional counter cannot
	// cover another gated action.
	ErrFreeAccessUnavailable = errors.New("free access unavailable")
)
