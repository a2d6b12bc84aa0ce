package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrOutOfRange      = errors.New("index out of range")
	ErrDraftNotFound   = errors.New("relaunch draft not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrPoolNotFound    = errors.New("pool not found")
	ErrNotExpiring     = errors.New("pool is not expiring soon")
	ErrDataFetch       = errors.New("market data unavailable")
)

// ValidationError is a rejected operator input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FetchError is a network, status or decoding failure of the market data source.
// It matches ErrDataFetch.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch markets %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch markets %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrDataFetch }
