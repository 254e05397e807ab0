// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrInvalidInput is returned when a required field (email or password) is missing or unusable.
	ErrInvalidInput = errors.New("email and password are required")

	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned by Login for both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound is returned when a session cannot be found by token or has expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStorage wraps unexpected failures of the underlying stores.
	// Callers surface it as a request failure; nothing retries it.
	ErrStorage = errors.New("storage failure")
)
