package repository

import "errors"

// Sentinel errors shared by all repositories. "no rows" and "query failed"
// are kept distinct so callers never have to guess from an empty result.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a unique key
	// (username, serial number, restore code).
	ErrDuplicate = errors.New("record already exists")
)
