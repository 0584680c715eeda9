package store

import "errors"

// Sentinel errors returned by lifecycle operations. Handlers map them to
// machine-readable HTTP statuses with errors.Is.
var (
	// ErrNotFound is returned when no content matches the requested path.
	ErrNotFound = errors.New("content not found")

	// ErrForbidden is returned when the requester is not the content's creator.
	ErrForbidden = errors.New("not the content owner")
)
