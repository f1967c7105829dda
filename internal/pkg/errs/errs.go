package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidPayload         = errors.New("invalid payload")
	ErrAlreadyProcessed       = errors.New("already processed")
	ErrBackendUnavailable     = errors.New("backend unavailable")
)

// sanitize keeps user supplied values on a single line inside error messages.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// ObjectNotFoundError reports a referenced record that does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return withCause(fmt.Sprintf("%s: param is: %s, ID is: %s", ErrObjectNotFound, e.ParamName, e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a value that failed domain validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	return withCause(msg, e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ForbiddenError reports a role or ownership mismatch.
type ForbiddenError struct {
	Action string
	Reason string
}

func NewForbiddenError(action, reason string) *ForbiddenError {
	return &ForbiddenError{Action: action, Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrForbidden, e.Action, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// InvalidStateTransitionError reports a status precondition that was not met.
type InvalidStateTransitionError struct {
	From fmt.Stringer
	To   fmt.Stringer
	Cause error
}

func NewInvalidStateTransitionError(from, to fmt.Stringer) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{From: from, To: to}
}

func NewInvalidStateTransitionErrorWithCause(from, to fmt.Stringer, cause error) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{From: from, To: to, Cause: cause}
}

func (e *InvalidStateTransitionError) Error() string {
	return withCause(fmt.Sprintf("%s: %s -> %s", ErrInvalidStateTransition, e.From, e.To), e.Cause)
}

func (e *InvalidStateTransitionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidStateTransition, e.Cause}
	}
	return []error{ErrInvalidStateTransition}
}

// InvalidPayloadError reports missing or malformed data for a child record.
type InvalidPayloadError struct {
	Reason string
	Cause  error
}

func NewInvalidPayloadError(reason string) *InvalidPayloadError {
	return &InvalidPayloadError{Reason: reason}
}

func NewInvalidPayloadErrorWithCause(reason string, cause error) *InvalidPayloadError {
	return &InvalidPayloadError{Reason: reason, Cause: cause}
}

func (e *InvalidPayloadError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrInvalidPayload, e.Reason), e.Cause)
}

func (e *InvalidPayloadError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidPayload, e.Cause}
	}
	return []error{ErrInvalidPayload}
}

// AlreadyProcessedError reports a duplicate creation attempt rejected by a
// uniqueness constraint. It matches both ErrAlreadyProcessed and ErrInvalidPayload.
type AlreadyProcessedError struct {
	Table string
	Key   string
	Cause error
}

func NewAlreadyProcessedError(table, key string) *AlreadyProcessedError {
	return &AlreadyProcessedError{Table: table, Key: key}
}

func NewAlreadyProcessedErrorWithCause(table, key string, cause error) *AlreadyProcessedError {
	return &AlreadyProcessedError{Table: table, Key: key, Cause: cause}
}

func (e *AlreadyProcessedError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrAlreadyProcessed, e.Table, e.Key), e.Cause)
}

func (e *AlreadyProcessedError) Unwrap() []error {
	return []error{ErrAlreadyProcessed, ErrInvalidPayload}
}

// BackendUnavailableError wraps a failure of the database or an external provider.
type BackendUnavailableError struct {
	Backend string
	Cause   error
}

func NewBackendUnavailableError(backend string, cause error) *BackendUnavailableError {
	return &BackendUnavailableError{Backend: backend, Cause: cause}
}

func (e *BackendUnavailableError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrBackendUnavailable, e.Backend), e.Cause)
}

func (e *BackendUnavailableError) Unwrap() []error {
	return []error{ErrBackendUnavailable, e.Cause}
}

// IsExpected reports whether err belongs to the kinds that are shown to the
// caller without operational follow-up.
func IsExpected(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidStateTransition) ||
		errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrObjectNotFound)
}

// IsNotFound reports whether err is or wraps an ObjectNotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// Classify keeps taxonomy errors as they are. Domain validation failures become
// InvalidPayload and anything else is treated as an unavailable backend.
func Classify(backend string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsExpected(err), errors.Is(err, ErrBackendUnavailable):
		return err
	case errors.Is(err, ErrValueIsInvalid), errors.Is(err, ErrValueIsRequired), errors.Is(err, ErrValueIsOutOfRange):
		return NewInvalidPayloadErrorWithCause("validation failed", err)
	default:
		return NewBackendUnavailableError(backend, err)
	}
}
