package searchable

import (
	"errors"

	"github.com/kailas-cloud/searchable/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexUnavailable = domain.ErrIndexUnavailable
	ErrQueryRejected    = domain.ErrQueryRejected
	ErrValidation       = domain.ErrValidation

	// ErrInvalidSchema reports a struct whose searchable tags cannot be used.
	ErrInvalidSchema = errors.New("searchable: invalid schema")
)
