package db

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine and store operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrUnavailable marks transport failures: no connection, timeouts, 5xx.
	ErrUnavailable = errors.New("db: backend unavailable")
	// ErrRejected marks requests the backend refused as malformed.
	ErrRejected = errors.New("db: request rejected")
)

// Op constants name the backend call for error context.
const (
	OpPing      = "PING"
	OpSearch    = "SEARCH"
	OpIndex     = "INDEX"
	OpDelete    = "DELETE"
	OpDeleteAll = "DELETE_ALL"
	OpGet       = "GET"
	OpMGet      = "MGET"
	OpSet       = "SET"
	OpDel       = "DEL"
	OpScan      = "SCAN"
	OpQuery     = "QUERY"
	OpExec      = "EXEC"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Unavailable wraps err as a transport failure of op.
func Unavailable(op string, err error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
}

// Rejected wraps err as a refused request of op.
func Rejected(op string, err error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrRejected, err)}
}
