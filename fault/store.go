package fault

import "errors"

// Errors raised by the indexed list store. All of them are synchronous caller
// errors; nothing in the store retries.
var (
	// ErrConfiguration indicates a malformed index spec or a missing
	// construction field.
	ErrConfiguration = errors.New("configuration error")

	// ErrDuplicateKey indicates a primary key that is already held.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound indicates a required record or index is absent.
	ErrNotFound = errors.New("not found")

	// ErrConsistency indicates an update or delete against a primary key the
	// store does not track.
	ErrConsistency = errors.New("consistency error")

	// ErrStaleView indicates a deferred copy was requested after the store
	// was mutated.
	ErrStaleView = errors.New("stale view")
)
