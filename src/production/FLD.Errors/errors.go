// Package errs contains sentinel errors shared across layers so controllers
// can map failures to stable HTTP status codes.
package errs

import "errors"

var (
	// ErrValidation indicates a missing or empty required field.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates bad credentials or a missing/expired token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a malformed token or failed signature verification.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInternal indicates a storage failure; the detail is logged, not exposed.
	ErrInternal = errors.New("internal error")
)
