package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller does not own the requested resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the operation collides with one already in progress.
var ErrConflict = errors.New("operation already in progress")

// ErrUpstream indicates an external API (LLM, Graph API) failed.
var ErrUpstream = errors.New("upstream service error")

// AppError carries an HTTP-ish status code for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
