package repository

import "errors"

// Sentinel kinds for contact store errors.
var (
	ErrNotFound = errors.New("contact not found")
)
