package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to status codes.
var (
	// ErrCardNotOwned indicates the card belongs to a different user than the
	// one making the request. The API layer maps this to HTTP 403 Forbidden.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")
)

// ServiceError wraps errors from a service with the operation that failed.
// This allows consumers to inspect failures with errors.As instead of string
// matching, while errors.Is still reaches the underlying sentinel.
type ServiceError struct {
	// Service is the name of the service, e.g. "card" or "study"
	Service string
	// Operation is the operation that failed, e.g. "get_card" or "review_card"
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// EnsureServiceError returns err unchanged when it already carries a
// ServiceError and otherwise wraps it, typically a transaction begin or
// commit failure.
func EnsureServiceError(service, operation string, err error) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return NewServiceError(service, operation, "transaction failed", err)
}
