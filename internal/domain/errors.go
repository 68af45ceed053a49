package domain

import "errors"

var (
	// ErrInvalidConfig signals a malformed search configuration (fields, weights, drivers).
	ErrInvalidConfig = errors.New("invalid config")
	// ErrIndexUnavailable signals that the index engine could not be reached.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrQueryRejected signals that the index engine refused the query.
	ErrQueryRejected = errors.New("query rejected")
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrUnknownEntity signals a request for an entity type that is not configured.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrValidation signals malformed input.
	ErrValidation = errors.New("validation failed")
)
