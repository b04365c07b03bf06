package application

import (
	"errors"
	"fmt"
)

// Kind classifies application errors; the HTTP layer maps each kind to a status.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindConflict
	KindUnauthorized
	KindInvalidCredentials
	KindForbidden
	KindInvalidCode
	KindExpired
	KindNoOtpPending
	KindAlreadyVerified
	KindEmailDelivery
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindForbidden:
		return "forbidden"
	case KindInvalidCode:
		return "invalid_code"
	case KindExpired:
		return "expired"
	case KindNoOtpPending:
		return "no_otp_pending"
	case KindAlreadyVerified:
		return "already_verified"
	case KindEmailDelivery:
		return "email_delivery_failure"
	default:
		return "internal"
	}
}

// Error is the typed error returned by every service.
// Message is safe to show to clients; Err is the logged cause.
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

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels, one per kind.
var (
	ErrInternal           = &Error{Kind: KindInternal, Message: "Internal server error"}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput, Message: "Invalid input"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "Already exists"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "Unauthorized request"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid username or password"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Forbidden"}
	ErrInvalidCode        = &Error{Kind: KindInvalidCode, Message: "Invalid verification code"}
	ErrExpired            = &Error{Kind: KindExpired, Message: "OTP has expired"}
	ErrNoOtpPending       = &Error{Kind: KindNoOtpPending, Message: "No OTP request found"}
	ErrAlreadyVerified    = &Error{Kind: KindAlreadyVerified, Message: "User already verified"}
	ErrEmailDelivery      = &Error{Kind: KindEmailDelivery, Message: "Failed to send email"}
)

func newErr(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
