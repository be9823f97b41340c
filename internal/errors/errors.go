package errors

import (
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Kind classifies a failure so callers can branch on it with errors.Is.
type Kind string

const (
	KindInvalidInput     Kind = "INVALID_INPUT"
	KindInvalidLabels    Kind = "INVALID_LABELS"
	KindUnknownMethod    Kind = "UNKNOWN_METHOD"
	KindInvalidThreshold Kind = "INVALID_THRESHOLD"
)

// Error wraps an errbuilder error with the kind of validation that failed.
type Error struct {
	*errbuilder.ErrBuilder
	Kind Kind
}

// Sentinels for errors.Is comparisons. Only the Kind is compared.
var (
	ErrInvalidInput     = sentinel(KindInvalidInput)
	ErrInvalidLabels    = sentinel(KindInvalidLabels)
	ErrUnknownMethod    = sentinel(KindUnknownMethod)
	ErrInvalidThreshold = sentinel(KindInvalidThreshold)
)

func sentinel(kind Kind) *Error {
	return &Error{
		ErrBuilder: errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(string(kind)),
		Kind: kind,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ErrBuilder == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	if e.ErrBuilder == nil {
		return nil
	}
	return e.ErrBuilder.Unwrap()
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, field, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)

	if field != "" {
		errorMap := errbuilder.ErrorMap{}
		errorMap.Set(field, errors.New(msg))
		builder = builder.WithDetails(errbuilder.NewErrDetails(errorMap))
	}

	return &Error{ErrBuilder: builder, Kind: kind}
}

// InvalidInput reports a missing, empty or malformed argument.
func InvalidInput(field, format string, args ...interface{}) error {
	return newError(KindInvalidInput, field, format, args...)
}

// InvalidLabels reports a label vector that is not a two-class {0,1} vector
// matching the number of samples.
func InvalidLabels(format string, args ...interface{}) error {
	return newError(KindInvalidLabels, "labels", format, args...)
}

// UnknownMethod reports an unrecognised method name for the given option.
func UnknownMethod(option, name string) error {
	return newError(KindUnknownMethod, option, "unknown %s %q", option, name)
}

// InvalidThreshold reports a threshold vector of the wrong arity or range.
func InvalidThreshold(format string, args ...interface{}) error {
	return newError(KindInvalidThreshold, "threshold", format, args...)
}

// KindOf returns the Kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
