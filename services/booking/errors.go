package booking

import (
	"errors"
	"fmt"
)

// ErrorKind classifies primary-operation failures.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindValidation        ErrorKind = "validation_failure"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation failure")
)

// LifecycleError is returned for every caller-visible lifecycle failure.
// Store and infrastructure failures are returned as plain wrapped errors.
type LifecycleError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *LifecycleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *LifecycleError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidTransition:
		return e.Kind == KindInvalidTransition
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

func notFound(format string, args ...any) error {
	return &LifecycleError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidTransition(format string, args ...any) error {
	return &LifecycleError{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...any) error {
	return &LifecycleError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
