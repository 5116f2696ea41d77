package store

import "errors"

// Sentinel errors shared by the generic entity layer. Entity-specific
// sentinels live next to the operations that return them.
var (
	// ErrNotFound is returned when a record cannot be found by key or index.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a create would collide with an
	// existing key or a unique index entry.
	ErrAlreadyExists = errors.New("record already exists")
)
