package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error and fixes its HTTP status
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindLimitReached
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindLimitReached:
		return "limit_reached"
	default:
		return "internal"
	}
}

// Status maps the kind to an HTTP status code
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden, KindLimitReached:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Reason is a machine readable denial tag
type Reason string

const (
	InsufficientRole        Reason = "InsufficientRole"
	CrossTenantAccess       Reason = "CrossTenantAccess"
	NotOwner                Reason = "NotOwner"
	SelfPrivilegeEscalation Reason = "SelfPrivilegeEscalation"
	SelfDeletion            Reason = "SelfDeletion"
	InvalidCredentials      Reason = "InvalidCredentials"
	AccountInactive         Reason = "AccountInactive"
	TenantRequired          Reason = "TenantRequired"
	TenantNotFound          Reason = "TenantNotFound"
	TenantInactive          Reason = "TenantInactive"
	TenantMismatch          Reason = "TenantMismatch"
	InvalidAssignee         Reason = "InvalidAssignee"
	SubdomainTaken          Reason = "SubdomainTaken"
	EmailTaken              Reason = "EmailTaken"
	LimitReached            Reason = "LimitReached"
)

// Error is the error type returned by services
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Reason)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind and, when set on target, Reason
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

func New(kind Kind, reason Reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unauthenticated(reason Reason, message string) *Error {
	return &Error{Kind: KindUnauthenticated, Reason: reason, Message: message}
}

func Forbidden(reason Reason, message string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(reason Reason, message string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: message}
}

func Limit(message string) *Error {
	return &Error{Kind: KindLimitReached, Reason: LimitReached, Message: message}
}

// Internal wraps an unexpected failure; its message is never shown to clients
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// From returns err as *Error, wrapping anything else as Internal
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) Kind {
	return From(err).Kind
}

// ReasonOf returns the reason of err, or ""
func ReasonOf(err error) Reason {
	if e := From(err); e != nil {
		return e.Reason
	}
	return ""
}
