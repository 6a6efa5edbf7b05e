package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrGeneration   = errors.New("generation failed")
	ErrInvalidState = errors.New("invalid session state")
)

type (
	// NotFoundError indicates a referenced document or session does not exist
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// InvalidStateError indicates an operation that is not legal in the
	// session's current state (e.g. creating an epic under an epic)
	InvalidStateError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *InvalidStateError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *InvalidStateError) StatusCode() int { return http.StatusConflict }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// GenerationError represents an upstream text-generation failure. All
// sub-causes (auth, quota, network) are folded into one kind since callers
// cannot usefully distinguish or recover from them.
type GenerationError struct {
	Op     string // the gateway operation that failed
	Reason string // upstream failure reason
}

// Error implements the error interface
func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// StatusCode implements the HTTPError interface
func (e *GenerationError) StatusCode() int {
	return http.StatusBadGateway
}

// Is allows errors.Is() to match against ErrGeneration
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}
