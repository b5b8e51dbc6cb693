// Package apperr defines the error kinds shared across the daylink layers.
package apperr

import "errors"

var (
	// ErrValidation marks input rejected before any backend call
	// (empty content, malformed tag date, bad date key).
	ErrValidation = errors.New("validation failed")

	// ErrAuthRequired marks a write attempted without an identity.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotFound marks a missing row, including owner-mismatch on mutation.
	ErrNotFound = errors.New("not found")
)
