package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrInvalidQuestion marks a malformed form slot. It is surfaced as a
	// per-slot diagnostic; it never aborts a matching run.
	ErrInvalidQuestion = errors.New("invalid question")
)
