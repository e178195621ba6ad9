package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError is the rich error type carried through the application. It
// wraps a cause, an optional user presentable hint, and a bag of reportable
// details that are safe to expose in API responses.
type InternalError struct {
	cause             error
	hint              string
	reportableDetails map[string]interface{}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	return e.cause.Error()
}

// Unwrap exposes the cause so errors.Is/As traverse the chain
func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint returns the user presentable hint, if any
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns details that are safe to expose to API consumers
func (e *InternalError) ReportableDetails() map[string]interface{} {
	return e.reportableDetails
}

// ErrorBuilder provides a fluent API for constructing InternalErrors.
// Terminate the chain with Mark to attach a classification marker.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts building an error from a plain message
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{
		err: &InternalError{
			cause: errors.NewWithDepth(1, message),
		},
	}
}

// NewErrorf starts building an error from a formatted message
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{
		err: &InternalError{
			cause: errors.NewWithDepthf(1, format, args...),
		},
	}
}

// WithError starts building an error that wraps an existing error
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &ErrorBuilder{
		err: &InternalError{
			cause: err,
		},
	}
}

// WithHint attaches a user presentable hint
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted user presentable hint
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err.hint = fmt.Sprintf(format, args...)
	return b
}

// WithMessage wraps the cause with an additional message
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	b.err.cause = errors.WithMessage(b.err.cause, message)
	return b
}

// WithReportableDetails attaches details that are safe to expose to API consumers
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err.reportableDetails = details
	return b
}

// Mark classifies the error with one of the marker errors and finishes the
// chain. The marker participates in errors.Is matching but does not alter
// the error message.
func (b *ErrorBuilder) Mark(marker error) error {
	if marker != nil {
		b.err.cause = errors.Mark(b.err.cause, marker)
	}
	return b.err
}
