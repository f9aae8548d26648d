package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeConflict        = "CONFLICT"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// AppError carries the code and HTTP status a failure is reported with.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an *AppError from err, wrapping anything else as internal.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

func newError(code string, status int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return newError(ErrCodeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found: %v", resource, id), nil)
}

func NewValidationError(field string, reason string) *AppError {
	return newError(ErrCodeValidation, http.StatusBadRequest, fmt.Sprintf("validation failed for %s: %s", field, reason), nil)
}

// NewInternalError hides the cause from clients; it is still reachable via Unwrap.
func NewInternalError(err error) *AppError {
	return newError(ErrCodeInternal, http.StatusInternalServerError, "internal server error", err)
}

func NewBadRequestError(message string) *AppError {
	return newError(ErrCodeBadRequest, http.StatusBadRequest, message, nil)
}

// NewConflictError reports a request that lost a race against the current
// state, such as an answer arriving after the question was already answered.
func NewConflictError(message string, err error) *AppError {
	return newError(ErrCodeConflict, http.StatusConflict, message, err)
}

func NewPayloadTooLargeError(limit int64) *AppError {
	return newError(ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit), nil)
}
