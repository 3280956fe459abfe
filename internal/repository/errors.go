// Package repository implements the credential store over MySQL. The
// sentinel values below let the service layer branch on failure
// scenarios without inspecting driver errors.
package repository

import "errors"

// ErrAccountExists is returned when an insert violates the unique
// constraint on username or email.
var ErrAccountExists = errors.New("username or email already exists")

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("account not found")
