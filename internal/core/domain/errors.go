package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrIncorrectPassword = errors.New("current password is incorrect")
var ErrPasswordMismatch = errors.New("new passwords do not match")

// ErrInvalidHashFormat signals a stored hash that bcrypt cannot interpret.
// This is a data-corruption condition, not a failed verification.
var ErrInvalidHashFormat = errors.New("stored password hash is malformed")

// ValidationError carries the user-facing message for malformed input,
// detected before any store access.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
