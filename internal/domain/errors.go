package domain

import "errors"

var (
	// ErrNotFound signals a missing entity regardless of storage backend.
	ErrNotFound = errors.New("domain: not found")
	// ErrConflict signals a uniqueness violation (email, slug, duplicate apply).
	ErrConflict = errors.New("domain: conflict")
)
