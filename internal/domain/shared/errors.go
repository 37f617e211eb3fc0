package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// InvariantViolationError signals an arithmetic or state invariant that can
// only be broken by a bug, never by user input. Handlers must treat it as an
// internal failure and abort the operation instead of clamping the value.
type InvariantViolationError struct {
	Message string
}

// Error implements the error interface
func (e *InvariantViolationError) Error() string {
	return "invariant violation: " + e.Message
}

// NewInvariantViolation creates a new InvariantViolationError
func NewInvariantViolation(format string, args ...any) *InvariantViolationError {
	return &InvariantViolationError{Message: fmt.Sprintf(format, args...)}
}
