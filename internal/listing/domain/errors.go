package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("record not found")
	ErrUnauthorized     = errors.New("not authorized")
	ErrNetwork          = errors.New("network failure")
	ErrMutationInFlight = errors.New("a change to this record is already being submitted")
)

// ValidationError is raised locally, before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RequestError is a non-2xx answer from the remote API. Message is the
// server-supplied reason, surfaced verbatim.
type RequestError struct {
	Op      string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.Status)
}

// Is lets callers branch on the status class with errors.Is.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// NetworkError wraps a transport failure where no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
