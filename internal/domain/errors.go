// Package domain provides the canonical entities and error taxonomy for the
// incident gateway.
package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// FaultKind is the category of a request-processing fault. Every kind maps to
// exactly one HTTP status code and title; the exception boundary is the only
// place that translation happens.
type FaultKind string

const (
	// FaultInvalidInput indicates a missing or malformed argument.
	FaultInvalidInput FaultKind = "invalid_input"

	// FaultOperationNotAllowed indicates an operation invalid in the
	// current state of the resource.
	FaultOperationNotAllowed FaultKind = "operation_not_allowed"

	// FaultAccessDenied indicates the caller lacks permission.
	FaultAccessDenied FaultKind = "access_denied"

	// FaultNotFound indicates the addressed resource does not exist.
	FaultNotFound FaultKind = "not_found"

	// FaultTimeout indicates the operation exceeded its allotted time or
	// was cancelled by the caller.
	FaultTimeout FaultKind = "timeout"

	// FaultUnexpected is the catch-all for anything unclassified.
	FaultUnexpected FaultKind = "unexpected"
)

// FieldViolation holds the violation messages for a single field, in the
// order the constraints were checked.
type FieldViolation struct {
	Field    string
	Messages []string
}

// Fault is the tagged error type handlers raise. It carries everything the
// exception boundary needs to build a wire-format error envelope.
type Fault struct {
	Kind   FaultKind
	Detail string

	// Fields is populated for validation faults only, preserving the
	// order fields were declared.
	Fields []FieldViolation

	cause error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Detail, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (f *Fault) Unwrap() error {
	return f.cause
}

// Status returns the HTTP status code for the fault kind.
func (f *Fault) Status() int {
	switch f.Kind {
	case FaultInvalidInput:
		return http.StatusBadRequest
	case FaultOperationNotAllowed:
		return http.StatusConflict
	case FaultAccessDenied:
		return http.StatusForbidden
	case FaultNotFound:
		return http.StatusNotFound
	case FaultTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Title returns the short human-readable title for the fault kind.
func (f *Fault) Title() string {
	switch f.Kind {
	case FaultInvalidInput:
		return "Invalid Input"
	case FaultOperationNotAllowed:
		return "Operation Not Allowed"
	case FaultAccessDenied:
		return "Access Denied"
	case FaultNotFound:
		return "Resource Not Found"
	case FaultTimeout:
		return "Request Timeout"
	default:
		return "Internal Server Error"
	}
}

// WithCause attaches an underlying error to the fault.
func (f *Fault) WithCause(err error) *Fault {
	f.cause = err
	return f
}

// NewFault creates a fault of the given kind.
func NewFault(kind FaultKind, detail string) *Fault {
	return &Fault{Kind: kind, Detail: detail}
}

// ErrInvalidInput creates an invalid-input fault.
func ErrInvalidInput(detail string) *Fault {
	return NewFault(FaultInvalidInput, detail)
}

// ErrOperationNotAllowed creates an operation-not-allowed fault.
func ErrOperationNotAllowed(detail string) *Fault {
	return NewFault(FaultOperationNotAllowed, detail)
}

// ErrAccessDenied creates an access-denied fault.
func ErrAccessDenied(detail string) *Fault {
	return NewFault(FaultAccessDenied, detail)
}

// ErrNotFound creates a not-found fault.
func ErrNotFound(detail string) *Fault {
	return NewFault(FaultNotFound, detail)
}

// ErrTimeout creates a timeout fault.
func ErrTimeout(detail string) *Fault {
	return NewFault(FaultTimeout, detail)
}

// ErrValidation creates an invalid-input fault carrying per-field violations.
func ErrValidation(fields []FieldViolation) *Fault {
	return &Fault{
		Kind:   FaultInvalidInput,
		Detail: "request validation failed",
		Fields: fields,
	}
}

// Classify maps an arbitrary error to a Fault. A *Fault anywhere in the chain
// is returned as-is; context cancellation and deadline expiry classify as
// timeouts; everything else is unexpected.
func Classify(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout("the request was cancelled or exceeded its deadline").WithCause(err)
	}
	return NewFault(FaultUnexpected, "an unexpected error occurred").WithCause(err)
}
