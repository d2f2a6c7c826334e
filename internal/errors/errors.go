// Package errors provides the typed error taxonomy shared by every store.
//
// Usage:
//
//	// In repositories - return typed errors
//	if count == 0 {
//	    return errors.NotFound("book", isbn)
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrConflict) {
//	    ...
//	}
//
//	// Or switch on the code / reason
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) && domainErr.Reason == errors.ReasonDuplicateEmail {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code is the error kind.
type Code string

const (
	CodeValidation Code = "VALIDATION"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeAuth       Code = "AUTH"
	CodeStorage    Code = "STORAGE"
)

// Reason narrows a code for callers that need to tell cases apart.
type Reason string

const (
	ReasonDuplicateUsername   Reason = "DUPLICATE_USERNAME"
	ReasonDuplicateEmail      Reason = "DUPLICATE_EMAIL"
	ReasonDuplicateFollow     Reason = "DUPLICATE_FOLLOW"
	ReasonDuplicateCollection Reason = "DUPLICATE_COLLECTION"
	ReasonDuplicateRating     Reason = "DUPLICATE_RATING"
	ReasonSameName            Reason = "SAME_NAME"
	ReasonBadCredentials      Reason = "BAD_CREDENTIALS"
	ReasonNoActiveSession     Reason = "NO_ACTIVE_SESSION"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeAuth:
		return http.StatusUnauthorized
	case CodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, an optional reason and a message.
type Error struct {
	Code    Code   `json:"code"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code. A target carrying a reason
// also requires the reason to match.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Reason == "" || e.Reason == t.Reason
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// Sentinels for errors.Is checks.
var (
	ErrValidation      = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict        = &Error{Code: CodeConflict, Message: "conflict"}
	ErrAuth            = &Error{Code: CodeAuth, Message: "authentication failed"}
	ErrStorage         = &Error{Code: CodeStorage, Message: "storage failure"}
	ErrNoActiveSession = &Error{Code: CodeAuth, Reason: ReasonNoActiveSession, Message: "no active session"}
	ErrBadCredentials  = &Error{Code: CodeAuth, Reason: ReasonBadCredentials, Message: "invalid username or password"}
)

// Validation builds a VALIDATION error.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NOT_FOUND error for the given resource and key.
func NotFound(resource, key string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", resource, key)}
}

// Conflict builds a CONFLICT error with a reason.
func Conflict(reason Reason, format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Auth builds an AUTH error with a reason.
func Auth(reason Reason, message string) *Error {
	return &Error{Code: CodeAuth, Reason: reason, Message: message}
}

// Storage wraps a transport or driver failure. Domain errors pass through
// unchanged so a rollback caused by a typed error keeps its kind.
func Storage(cause error) error {
	if cause == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(cause, &domainErr) {
		return cause
	}
	return &Error{Code: CodeStorage, Message: "storage failure", cause: cause}
}

// CodeOf returns the code of err, or "" if err is not a domain error.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
