// Package service implements the session manager: registration,
// login, logout, refresh rotation, and password reset over the
// credential store, hasher, and token service.
//
// Every operation returns either a success value or exactly one of the
// sentinel errors below; handlers translate them to HTTP status codes
// and never see raw internals.
package service

import "errors"

var (
	// ErrValidation covers missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrAccountExists is returned when username or email is taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrNotFound is returned when no account matches a lookup.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidCredentials is returned when a password does not verify.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized covers missing, invalid, expired, and stale
	// tokens. Expired and forged tokens are deliberately not
	// distinguished to callers.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUploadFailed is returned when media storage rejects an upload.
	ErrUploadFailed = errors.New("media upload failed")
	// ErrCreationFailed is returned when the read-back after a create
	// finds nothing. The row may still exist; callers can retry a
	// lookup.
	ErrCreationFailed = errors.New("account creation failed")
)
