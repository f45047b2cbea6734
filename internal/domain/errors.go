package domain

import "fmt"

type domainErr struct {
	message string
	cause   error
}

func (e domainErr) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e domainErr) Unwrap() error {
	return e.cause
}

// NotFoundErr is returned when a required input (dataset, document) does not exist.
type NotFoundErr struct {
	domainErr
}

// NewNotFoundErr creates a new NotFoundErr with the given message.
func NewNotFoundErr(message string) *NotFoundErr {
	return &NotFoundErr{domainErr: domainErr{message: message}}
}

// ValidationErr is returned when an input exists but is malformed.
type ValidationErr struct {
	domainErr
}

// NewValidationErr creates a new ValidationErr with the given message.
func NewValidationErr(message string) *ValidationErr {
	return &ValidationErr{domainErr: domainErr{message: message}}
}

// InitErr reports that the semantic model could not be initialized.
// It is sticky: the provider returns the same error for every later call.
type InitErr struct {
	domainErr
}

// NewInitErr wraps the cause of a failed model initialization.
func NewInitErr(cause error) *InitErr {
	return &InitErr{domainErr: domainErr{message: "embedding model initialization failed", cause: cause}}
}
