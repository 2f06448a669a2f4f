package token

import "errors"

var (
	// ErrMissingSigningKey is returned when the service is constructed
	// without a key.
	ErrMissingSigningKey = errors.New("token: missing signing key")

	// ErrInvalidToken is returned when a token fails signature or
	// temporal validation.
	ErrInvalidToken = errors.New("token: invalid token")

	// ErrUnexpectedSigningMethod is returned when a token was signed
	// with an algorithm other than the configured one.
	ErrUnexpectedSigningMethod = errors.New("token: unexpected signing method")
)
