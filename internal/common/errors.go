// Package common defines shared constants and sentinel errors used across
// passvault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors (missing or malformed input).
	ErrValidation = errors.New("validation error")

	// Registration with an email that already has an account.
	ErrDuplicateEmail = errors.New("account with this email already exists")

	// Authentication errors. ErrInvalidCredentials is deliberately generic:
	// it never distinguishes an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")

	// Token verification failure kinds. Callers may treat all three as
	// "unauthenticated"; the distinction exists for internal logs.
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenMalformed   = errors.New("malformed token")

	// Decryption of a sealed field failed: wrong key, corrupt or tampered
	// ciphertext. Never swallowed, never replaced with a default plaintext.
	ErrDecryption = errors.New("decryption failed")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")
)
