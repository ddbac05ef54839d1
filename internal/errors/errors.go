package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// ErrBillingAlignment is a policy error: no usable bill cycle day could be
	// resolved for a subscription. It skips the transition, never the account.
	ErrBillingAlignment = new(ErrCodeBillingAlignment, "no valid billing alignment")
	// ErrCatalogLookup is raised when a plan, phase or alignment rule cannot be
	// resolved from the catalog for a transition.
	ErrCatalogLookup = new(ErrCodeCatalogLookup, "catalog lookup failed")
	// ErrUpstream marks failures of the account, bundle, subscription, tag or
	// blocking collaborators. These abort the whole timeline build.
	ErrUpstream = new(ErrCodeUpstream, "upstream collaborator failure")
)

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeDatabase         = "database_error"
	ErrCodeBillingAlignment = "billing_alignment_error"
	ErrCodeCatalogLookup    = "catalog_lookup_error"
	ErrCodeUpstream         = "upstream_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// Hints returns every hint attached to err, joined by newlines
func Hints(err error) string {
	return errors.FlattenHints(err)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsDatabase checks if an error is a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsPolicyError checks if an error is an unresolved billing alignment
func IsPolicyError(err error) bool {
	return errors.Is(err, ErrBillingAlignment)
}

// IsLookupFailure checks if an error is a catalog lookup failure
func IsLookupFailure(err error) bool {
	return errors.Is(err, ErrCatalogLookup)
}

// IsUpstreamFailure checks if an error came from a collaborator fetch
func IsUpstreamFailure(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsSkippable reports whether a timeline build may drop the failing
// transition and carry on with the rest of the account
func IsSkippable(err error) bool {
	return IsPolicyError(err) || IsLookupFailure(err)
}
