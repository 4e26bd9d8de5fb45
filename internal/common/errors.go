// Package common defines shared constants and sentinel errors used across
// filmvault layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Registration / login outcomes.
	ErrMissingFields      = errors.New("email and password required")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session token verification.
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("invalid token signature")

	// Signing key is absent or empty.
	ErrEmptySecret = errors.New("signing secret is empty")
)
