// Package common defines shared constants and sentinel errors used across
// the parking service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal           = errors.New("internal error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("account must be verified before logging in")
	ErrInactiveAccount    = errors.New("account is disabled")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNotOwner           = errors.New("record belongs to another account")

	// Authorization gate outcomes.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrUnknownRole     = errors.New("unknown role")

	// Single-use token lifecycle.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// Session token codec.
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenMalformed   = errors.New("malformed token")
)
