package resourcehub

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrForbidden indicates an ownership check failed
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated indicates an operation requiring a principal was
	// called without one
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation indicates a post carried missing or invalid fields
	ErrValidation = errors.New("invalid post fields")

	// ErrSizeExceeded indicates an attachment was larger than the
	// configured maximum
	ErrSizeExceeded = errors.New("attachment size exceeded")
)

// ValidationError carries the field that failed validation. It unwraps to
// ErrValidation so callers can match the whole class with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PostError represents an error related to post metadata operations
type PostError struct {
	PostID uuid.UUID
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %s: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// VaultError represents an error related to attachment vault operations
type VaultError struct {
	Key string
	Op  string
	Err error
}

func (e *VaultError) Error() string {
	return fmt.Sprintf("vault operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *VaultError) Unwrap() error {
	return e.Err
}
