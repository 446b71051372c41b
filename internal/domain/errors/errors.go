package errors

import (
	"net/http"

	"planner/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Coordinate validation. Rejected synchronously, state unchanged.
	ErrInvalidCoordinate = NewBaseError(
		http.StatusBadRequest,
		"INVALID_COORDINATE",
		"Latitude must be within [-90, 90] and longitude within [-180, 180]",
		"",
	)

	// Routing preconditions
	ErrProjectLocationMissing = NewBaseError(
		http.StatusPreconditionFailed,
		"NO_PROJECT_LOCATION",
		"Set a project location before computing routes",
		"",
	)

	ErrNoServicesLoaded = NewBaseError(
		http.StatusPreconditionFailed,
		"NO_SERVICES_LOADED",
		"Search for nearby emergency services before bulk routing",
		"",
	)

	// Not-found family. The operation aborts before any provider call.
	ErrSourceNotFound = NewBaseError(
		http.StatusNotFound,
		"SOURCE_NOT_FOUND",
		"Routing source is neither a marker nor a known service",
		"",
	)

	ErrDestinationNotFound = NewBaseError(
		http.StatusNotFound,
		"DESTINATION_NOT_FOUND",
		"Destination facility does not exist",
		"",
	)

	ErrMarkerNotFound = NewBaseError(
		http.StatusNotFound,
		"MARKER_NOT_FOUND",
		"Marker does not exist",
		"",
	)

	ErrServiceNotFound = NewBaseError(
		http.StatusNotFound,
		"SERVICE_NOT_FOUND",
		"Emergency service does not exist",
		"",
	)

	ErrNotAHospital = NewBaseError(
		http.StatusConflict,
		"NOT_A_HOSPITAL",
		"Emergency-room verification only applies to hospitals",
		"",
	)

	// Bulk routing: the only batch-level failure is zero successes.
	ErrNoRoutesComputed = NewBaseError(
		http.StatusBadGateway,
		"NO_ROUTES_COMPUTED",
		"No routes could be computed for any hospital",
		"",
	)

	// Capture errors
	ErrNoCapture = NewBaseError(
		http.StatusNotFound,
		"NO_CAPTURE",
		"No map capture has been taken",
		"",
	)

	// Access-gate errors
	ErrAccessCodeInvalid = NewBaseError(
		http.StatusUnauthorized,
		"ACCESS_CODE_INVALID",
		"Access code is incorrect",
		"",
	)

	ErrAccessTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"ACCESS_TOKEN_INVALID",
		"Access token is invalid or expired",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Request validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
