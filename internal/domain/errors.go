package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// registration does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is the sentinel matched by errors.Is for field-level
// validation failures. Service functions return a *ValidationError, which
// wraps this sentinel and carries the full message list.
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrInvalidState is returned when an action is not permitted given the
// registration's current status, e.g. recording a departure on a
// registration that has already departed.
// Handlers should map this to HTTP 400.
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidInput is returned when a structurally required input is
// missing, e.g. a departure without a timestamp or signature. Distinct
// from ErrValidation, which covers field-format problems on a draft.
// Handlers should map this to HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError carries every validation failure found on a draft, in
// check order. It is never truncated to the first problem — callers show
// the complete list to the user.
type ValidationError struct {
	Messages []string
}

// Error joins all messages so the type still reads well in logs.
func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Messages, "; ")
}

// Is makes errors.Is(err, ErrValidation) match a *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
