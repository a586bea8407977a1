package cachestore

import "errors"

var (
	// ErrNotFound is returned by Get when no entry exists for the key.
	ErrNotFound = errors.New("cachestore: entry not found")

	// ErrInvalidKey is returned when a key does not map to a usable entry name.
	ErrInvalidKey = errors.New("cachestore: invalid key")
)
