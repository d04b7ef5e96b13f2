package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so cloned errors compare equal to their template.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the club domain.
var (
	ErrUnauthenticated  = New("UNAUTHENTICATED", http.StatusUnauthorized, "authentication required")
	ErrUnauthorized     = New("UNAUTHORIZED", http.StatusForbidden, "not a member of this delegation")
	ErrForbidden        = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound         = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrLessonNotFound   = New("LESSON_NOT_FOUND", http.StatusNotFound, "lesson not found")
	ErrTopicNotFound    = New("TOPIC_NOT_FOUND", http.StatusNotFound, "topic not found")
	ErrUserNotFound     = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")
	ErrDuplicateTitle   = New("DUPLICATE_TITLE", http.StatusConflict, "topic already exists")
	ErrDateConflict     = New("DATE_CONFLICT", http.StatusConflict, "lesson already exists on that day")
	ErrAlreadyDelegated = New("ALREADY_DELEGATED", http.StatusConflict, "student already belongs to a delegation for this topic")
	ErrTopicInUse       = New("TOPIC_IN_USE", http.StatusConflict, "topic still has lessons or delegations")
	ErrValidation       = New("VALIDATION", http.StatusBadRequest, "validation failed")
	ErrInternal         = New("INTERNAL", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss        = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Internal wraps an unexpected failure with a caller-facing message.
func Internal(err error, message string) *Error {
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}

// Validation wraps a payload validation failure.
func Validation(err error, message string) *Error {
	return Wrap(err, ErrValidation.Code, ErrValidation.Status, message)
}
