package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when no token record exists for a portal
	ErrNotFound = errors.New("token record not found")
)
