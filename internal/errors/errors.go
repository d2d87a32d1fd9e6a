package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNoData            = "NO_DATA"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeInvalidSelection  = "INVALID_SELECTION"
	ErrCodeRateLimited       = "RATE_LIMITED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "NO_DATA")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As returns the AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewDocumentTooLargeError is a BAD_REQUEST that keeps the size error in the chain.
func NewDocumentTooLargeError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: "page content is too large",
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// NewNoDataError is returned when a document contains no quiz percentages.
// It is a normal outcome, not a failure of the source.
func NewNoDataError() *AppError {
	return &AppError{
		Code:    ErrCodeNoData,
		Message: "no quiz percentages found on this page",
		Status:  http.StatusUnprocessableEntity,
	}
}

// NewSourceUnavailableError is returned when no document text could be obtained.
func NewSourceUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeSourceUnavailable,
		Message: "page content unavailable",
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// NewInvalidSelectionError is returned for a best-of window below 1.
func NewInvalidSelectionError(n int, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidSelection,
		Message: fmt.Sprintf("invalid selection window: %d", n),
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// NewRateLimitedError creates a new RATE_LIMITED error
func NewRateLimitedError() *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: "too many requests",
		Status:  http.StatusTooManyRequests,
	}
}
