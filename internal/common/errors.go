// Package common defines shared constants and sentinel errors used across
// the secure-vault server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Auth errors. Both map to the same client-facing response.
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")

	// Cipher errors.
	ErrDecryptionFailure    = errors.New("decryption failure")
	ErrMissingEncryptionKey = errors.New("encryption key is not configured")
)

// ValidationError carries a client-facing message and matches
// ErrorValidation under errors.Is.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrorValidation }
