package services

import (
    "errors"
    "fmt"
)

// ValidationError marks missing or malformed required input. It is
// checked before the store is touched and surfaces to the caller with
// a 4xx marker and its reason.
type ValidationError struct {
    Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
    return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
    var ve *ValidationError
    return errors.As(err, &ve)
}

// StoreError wraps any failure communicating with or executing against
// the store. Full detail stays server-side; callers only ever see an
// opaque marker.
type StoreError struct {
    Op  string
    Err error
}

func (e *StoreError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }
