package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable, machine readable error category exposed to clients.
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindUnauthenticated     Kind = "unauthenticated"
	KindForbidden           Kind = "forbidden"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindSlotUnavailable     Kind = "slot_unavailable"
	KindInvalidTransition   Kind = "invalid_transition"
	KindLawyerNotApproved   Kind = "lawyer_not_approved"
	KindLawyerUnavailable   Kind = "lawyer_unavailable"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindRateLimited         Kind = "rate_limited"
	KindInternal            Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindValidation:          http.StatusBadRequest,
	KindUnauthenticated:     http.StatusUnauthorized,
	KindForbidden:           http.StatusForbidden,
	KindNotFound:            http.StatusNotFound,
	KindConflict:            http.StatusConflict,
	KindSlotUnavailable:     http.StatusConflict,
	KindInvalidTransition:   http.StatusConflict,
	KindLawyerNotApproved:   http.StatusForbidden,
	KindLawyerUnavailable:   http.StatusConflict,
	KindUpstreamUnavailable: http.StatusBadGateway,
	KindRateLimited:         http.StatusTooManyRequests,
	KindInternal:            http.StatusInternalServerError,
}

// Error carries a Kind, a message safe to show to users and an optional
// underlying cause that is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, apperror.ErrSlotUnavailable).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Status returns the HTTP status for the error kind.
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Sentinels for errors.Is comparisons; they match any error of their kind.
var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrConflict            = &Error{Kind: KindConflict}
	ErrSlotUnavailable     = &Error{Kind: KindSlotUnavailable}
	ErrInvalidTransition   = &Error{Kind: KindInvalidTransition}
	ErrLawyerNotApproved   = &Error{Kind: KindLawyerNotApproved}
	ErrLawyerUnavailable   = &Error{Kind: KindLawyerUnavailable}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable}
	ErrInternal            = &Error{Kind: KindInternal}
)

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return New(KindUnauthenticated, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

func SlotUnavailable(dateKey, timeLabel string) *Error {
	return New(KindSlotUnavailable, "slot %s on %s is not available", timeLabel, dateKey)
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return New(KindInvalidTransition, format, args...)
}

func Internal(err error, format string, args ...interface{}) *Error {
	return Wrap(KindInternal, err, format, args...)
}

// From converts any error into an *Error. Unknown errors become internal
// errors with a generic message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err, "internal server error")
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	return From(err).Kind
}
