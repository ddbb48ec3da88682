package domain

import "errors"

// Sentinel errors form the taxonomy the HTTP boundary maps to statuses.
// Anything not listed here is treated as an internal failure and never
// surfaces its message to clients.
var (
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrTokenExpired       = errors.New("token has expired")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("todo not found")
)
