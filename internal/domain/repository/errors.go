package repository

import "errors"

var (
	// ErrNotFound means the row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotOwner means the row exists but belongs to someone else. Mutations
	// are conditional on ownership, so this is detected without a race on the
	// write path.
	ErrNotOwner = errors.New("not owner")
	// ErrDuplicate means a uniqueness constraint (email, slug) was violated.
	ErrDuplicate = errors.New("duplicate")
)
