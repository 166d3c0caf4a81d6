package automation

import (
	"errors"
	"fmt"
)

// Kind classifies a failure surfaced by an automation attempt.
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindElementNotFound  Kind = "ELEMENT_NOT_FOUND"
	KindTimeout          Kind = "TIMEOUT"
	KindSubmissionFailed Kind = "SUBMISSION_FAILED"
	KindStore            Kind = "STORE_ERROR"
)

// Failure is a typed error returned from the orchestrator's public surface.
// Timeouts are retryable; everything else is not.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether retrying the same request may succeed.
func (f *Failure) Retryable() bool { return f.Kind == KindTimeout }

// NewFailure builds a typed failure.
func NewFailure(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// WrapFailure builds a typed failure around an underlying cause.
func WrapFailure(kind Kind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from err, or KindStore for untyped errors.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindStore
}

// IsRetryable reports whether err is a retryable failure.
func IsRetryable(err error) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Retryable()
	}
	return false
}
