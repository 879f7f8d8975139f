package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeEmptyCatalog       = "EMPTY_CATALOG"
	ErrCodeEmptyAnswer        = "EMPTY_ANSWER"
	ErrCodeSubmitInFlight     = "SUBMISSION_IN_FLIGHT"
	ErrCodeStatsPersistence   = "STATS_PERSISTENCE_FAILED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "EMPTY_ANSWER")
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

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewUnauthenticatedError creates a new UNAUTHENTICATED error
func NewUnauthenticatedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Code:    ErrCodeUnauthenticated,
		Message: message,
		Status:  401,
	}
}

// NewConflictError creates a new CONFLICT error
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}

// NewCatalogUnavailableError wraps a failed catalog or accuracy fetch.
// The condition is retryable, so it maps to 503 rather than 500.
func NewCatalogUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeCatalogUnavailable,
		Message: "character catalog could not be loaded",
		Status:  503,
		Err:     err,
	}
}

// NewEmptyCatalogError signals that no characters are available to practice.
func NewEmptyCatalogError() *AppError {
	return &AppError{
		Code:    ErrCodeEmptyCatalog,
		Message: "no characters available for practice",
		Status:  404,
	}
}

// NewEmptyAnswerError signals a blank submission. No statistics are touched.
func NewEmptyAnswerError() *AppError {
	return &AppError{
		Code:    ErrCodeEmptyAnswer,
		Message: "answer must not be empty",
		Status:  400,
	}
}

// NewSubmitInFlightError rejects a second submission while one is outstanding.
func NewSubmitInFlightError() *AppError {
	return &AppError{
		Code:    ErrCodeSubmitInFlight,
		Message: "a submission is already being processed for this session",
		Status:  409,
	}
}
