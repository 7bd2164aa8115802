// Package apperr defines the closed failure taxonomy shared by every layer of
// the component. Each failure carries a Kind, which fixes its HTTP status and
// its public name, and a free-form Detail that is safe to return to callers.
//
// The HTTP layer translates these values into the stable error body
//
//	{ "error": "<kind name>", "detail": "<detail>" }
//
// via middleware.ErrorHandler. Packages below the HTTP layer construct them
// with the helpers in this file and never pick status codes themselves.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies one variant of the failure taxonomy. The set is closed: only
// the constants below are valid.
type Kind int

const (
	// KindValidation marks malformed or invalid caller input (422).
	KindValidation Kind = iota + 1
	// KindPipeline marks a downstream processing failure (500).
	KindPipeline
	// KindDependency marks an unavailable external dependency (503).
	KindDependency
	// KindConfiguration marks a missing or invalid process configuration (500).
	KindConfiguration
)

// DefaultDetail is used when a failure is constructed without a detail.
const DefaultDetail = "Internal component error"

// String returns the public kind name written to the "error" field.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindPipeline:
		return "PipelineError"
	case KindDependency:
		return "DependencyError"
	case KindConfiguration:
		return "ConfigurationError"
	}
	return "ComponentError"
}

// StatusCode returns the HTTP status bound to the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindPipeline:
		return http.StatusInternalServerError
	case KindDependency:
		return http.StatusServiceUnavailable
	case KindConfiguration:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error is a typed component failure.
type Error struct {
	Kind   Kind
	Detail string
	// Err is the optional underlying cause. It is never rendered to callers.
	Err error
}

// Error implements the error interface and returns the detail.
func (e *Error) Error() string { return e.Detail }

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of the failure.
func (e *Error) StatusCode() int { return e.Kind.StatusCode() }

// Name returns the public kind name of the failure.
func (e *Error) Name() string { return e.Kind.String() }

// New builds a failure of the given kind. An empty detail is replaced by
// DefaultDetail so the rendered body never carries an empty string.
func New(kind Kind, detail string) *Error {
	if detail == "" {
		detail = DefaultDetail
	}
	return &Error{Kind: kind, Detail: detail}
}

// Wrap builds a failure of the given kind that keeps cause for logging and
// errors.Is matching.
func Wrap(kind Kind, detail string, cause error) *Error {
	e := New(kind, detail)
	e.Err = cause
	return e
}

// Validation reports bad caller input.
func Validation(detail string) *Error { return New(KindValidation, detail) }

// Pipeline reports a downstream processing failure.
func Pipeline(detail string) *Error { return New(KindPipeline, detail) }

// Dependency reports an unavailable external dependency.
func Dependency(detail string) *Error { return New(KindDependency, detail) }

// Configuration reports a process misconfiguration.
func Configuration(detail string) *Error { return New(KindConfiguration, detail) }

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err's chain contains a failure of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
