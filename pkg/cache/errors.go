package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrMissingAddress is returned by [Open] when a network backend has no address.
	ErrMissingAddress = errors.New("cache backend address is required")
)
