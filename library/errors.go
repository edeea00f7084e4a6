package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced book or page does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when a required field is missing or a
	// reference is not acceptable for the operation.
	ErrValidation = errors.New("validation failed")

	// ErrAmbiguous is returned when a title matches more than one book.
	ErrAmbiguous = fmt.Errorf("%w: ambiguous title", ErrValidation)

	// ErrStore matches any *StoreError via errors.Is.
	ErrStore = errors.New("store failure")
)

// StoreError wraps an underlying persistence failure (connection, constraint,
// disk) with the operation that triggered it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStore) match without exposing the driver error.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func notFound(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, a...))
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, a...))
}
