package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. It doubles as the stable machine-readable
// code surfaced in error responses.
type Kind string

const (
	KindValidation           Kind = "validation_error"
	KindAuth                 Kind = "auth_error"
	KindVerificationRequired Kind = "verification_required"
	KindInvalidToken         Kind = "invalid_token"
	KindExpiredToken         Kind = "expired_token"
	KindConflict             Kind = "conflict"
	KindNotFound             Kind = "not_found"
	KindRateLimited          Kind = "rate_limited"
	KindInternal             Kind = "internal_error"
)

// Store sentinels. Repositories translate driver errors into these so
// services never see driver types.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicate    = errors.New("unique constraint violation")
)

// Error is the single failure type flows return. Handlers never format
// responses themselves; httputil.WriteError maps Kind to a wire response.
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

// Status maps the kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindInvalidToken, KindExpiredToken:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindVerificationRequired:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the kind of err, or KindInternal for unknown errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// InvalidCredentials is deliberately uniform: callers must not be able
// to tell "no such user" from "wrong password".
func InvalidCredentials() *Error {
	return &Error{Kind: KindAuth, Message: "invalid username/email or password"}
}

func VerificationRequired() *Error {
	return &Error{Kind: KindVerificationRequired, Message: "email verification required"}
}

func InvalidToken(message string) *Error {
	return &Error{Kind: KindInvalidToken, Message: message}
}

func ExpiredToken(message string) *Error {
	return &Error{Kind: KindExpiredToken, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
