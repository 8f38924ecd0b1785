package domain

import (
	"errors"
	"fmt"
)

// ErrorClass classifies errors for handling purposes
type ErrorClass int

const (
	// ErrorInvalid is a rejected mutation: empty or duplicate name, dangling reference
	ErrorInvalid ErrorClass = iota
	// ErrorNotFound is a lookup of an absent entity
	ErrorNotFound
	// ErrorTranslation is a failure reading or writing the formal model
	ErrorTranslation
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorInvalid:
		return "invalid"
	case ErrorNotFound:
		return "not_found"
	case ErrorTranslation:
		return "translation"
	default:
		return "unknown"
	}
}

// Sentinel errors matched with errors.Is
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrTranslation = errors.New("translation failed")
)

// ValidationError rejects a mutating call without changing any state
type ValidationError struct {
	Kind    string
	Name    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Name, e.Message)
}

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError creates a ValidationError for an entity kind
func NewValidationError(kind, name, format string, args ...any) error {
	return &ValidationError{Kind: kind, Name: name, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that no entity of Kind is named Name
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is matches ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(kind, name string) error {
	return &NotFoundError{Kind: kind, Name: name}
}

// TranslationError wraps a failure to read or write the formal model
type TranslationError struct {
	Component string
	Operation string
	Err       error
}

func (e *TranslationError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s.%s failed: %v", e.Component, e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *TranslationError) Unwrap() error { return e.Err }

// Is matches ErrTranslation
func (e *TranslationError) Is(target error) bool { return target == ErrTranslation }

// WrapTranslation wraps err as a TranslationError. A nil err stays nil and an
// err that already is a TranslationError is returned unchanged.
func WrapTranslation(err error, component, operation string) error {
	if err == nil {
		return nil
	}
	var te *TranslationError
	if errors.As(err, &te) {
		return err
	}
	return &TranslationError{Component: component, Operation: operation, Err: err}
}

// NewTranslationError creates a TranslationError from a message
func NewTranslationError(component, operation, format string, args ...any) error {
	return &TranslationError{
		Component: component,
		Operation: operation,
		Err:       fmt.Errorf(format, args...),
	}
}

// IsValidation checks if an error rejects invalid input
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound checks if an error reports an absent entity
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsTranslation checks if an error is a formal model read/write failure
func IsTranslation(err error) bool { return errors.Is(err, ErrTranslation) }

// Classify returns the class of a domain error. ok is false for errors that
// carry no domain class.
func Classify(err error) (class ErrorClass, ok bool) {
	switch {
	case IsValidation(err):
		return ErrorInvalid, true
	case IsNotFound(err):
		return ErrorNotFound, true
	case IsTranslation(err):
		return ErrorTranslation, true
	default:
		return 0, false
	}
}
