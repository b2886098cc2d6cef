package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuery indicates a search query that can never succeed,
	// e.g. an embedding with the wrong dimensionality or a non-positive limit.
	// Rejected before any I/O and never retried.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrStoreUnavailable indicates the vector datastore could not be reached.
	// This is transient and propagates to the caller unmodified - search
	// cannot produce a meaningful answer without the store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCacheUnavailable indicates the result cache could not be reached.
	// Callers treat this as a cache miss; it never fails a search.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrSessionNotFound indicates the chat session does not exist
	ErrSessionNotFound = errors.New("session not found")
)
