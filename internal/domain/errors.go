package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	// ErrNotFound means a referenced file, folder or parent is absent or owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the stored tree is structurally inconsistent.
	ErrInvalidState = errors.New("invalid state")
	// ErrStoreUnavailable means the backing store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnauthenticated means no valid caller identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("validation failed")
)

// InvalidStateError describes a structural inconsistency found while walking a tree
type InvalidStateError struct {
	Message      string // Human-readable error message
	ResourceType string // file or folder
	ResourceID   string
}

// Error implements the error interface
func (e *InvalidStateError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *InvalidStateError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrInvalidState
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
