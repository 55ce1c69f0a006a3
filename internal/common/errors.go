// Package common defines shared constants and sentinel errors used across
// the studio site server. Callers should use errors.Is to match these values;
// producers wrap them with fmt.Errorf("%w: ...") to attach detail.
package common

import "errors"

var (
	// ErrValidation marks missing or malformed client input.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// Auth errors. All of them are reported to clients as "unauthorized";
	// the distinction only shows up in server logs.
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Upload rejections.
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrTooLarge        = errors.New("file too large")

	// ErrStorage wraps failures of the persistence layer (database or
	// upload backend). Not recoverable locally.
	ErrStorage = errors.New("storage failure")
)

// IsAuthError reports whether err is one of the authentication failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidCredentials)
}
