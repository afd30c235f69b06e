// Package apperror defines a centralized system for application-specific errors.
// Every failure that reaches an HTTP handler is expressed as an *AppError, which knows
// its HTTP status code and a stable machine-readable code for API clients.
// It's similar in concept to Nest.js's Exception Filters, where you can catch specific
// error types and customize the HTTP response.
package apperror

import (
	"errors"
	"fmt"
	// `net/http` is used for HTTP status codes.
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for different categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// ValidationError represents malformed or missing input the client can correct
	ValidationError
	// DuplicateUsernameError is returned when registering a username that is already taken
	DuplicateUsernameError
	// InvalidCredentialsError covers both "no such user" and "wrong password".
	// The two cases are merged on purpose so a client cannot enumerate usernames.
	InvalidCredentialsError
	// UnauthenticatedError means no usable credential was presented (missing/malformed header)
	UnauthenticatedError
	// ForbiddenError means a credential was presented but is invalid, expired or of the wrong kind
	ForbiddenError
	// NotFoundError represents a resource not found error
	NotFoundError
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// InternalError represents a generic internal server error
	InternalError
)

// AppError is a custom error type for the application.
// It allows wrapping an underlying error (`Err`) for server-side diagnostics while
// `Message` is the only text ever sent to the client.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so `errors.Is` and `errors.As` can inspect the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, DuplicateUsernameError, InvalidCredentialsError:
		return http.StatusBadRequest
	case UnauthenticatedError:
		// 401: the caller did not present a credential at all.
		return http.StatusUnauthorized
	case ForbiddenError:
		// 403: the caller presented a credential, but it did not verify.
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable code sent to clients alongside the message.
// All server-side failures share one code so nothing about the infrastructure leaks.
func (e *AppError) Code() string {
	switch e.Type {
	case ValidationError:
		return "INVALID_INPUT"
	case DuplicateUsernameError:
		return "DUPLICATE_USERNAME"
	case InvalidCredentialsError:
		return "INVALID_CREDENTIALS"
	case UnauthenticatedError:
		return "UNAUTHENTICATED"
	case ForbiddenError:
		return "FORBIDDEN"
	case NotFoundError:
		return "NOT_FOUND"
	default:
		return "SERVER_ERROR"
	}
}

// IsServerError reports whether the error maps to a 5xx response.
func (e *AppError) IsServerError() bool {
	return e.StatusCode() >= http.StatusInternalServerError
}

// NewAppError creates a new AppError. This is a generic constructor.
// It's useful when the error type is determined dynamically.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// Constructor functions for specific error types
// `NewDatabaseError("message", err)` reads better than `NewAppError(DatabaseError, "message", err)`.

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewDuplicateUsernameError creates a new DuplicateUsernameError
func NewDuplicateUsernameError(message string, underlyingError error) *AppError {
	return NewAppError(DuplicateUsernameError, message, underlyingError)
}

// NewInvalidCredentialsError creates a new InvalidCredentialsError.
// Callers must use the same message for every branch that produces it.
func NewInvalidCredentialsError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidCredentialsError, message, underlyingError)
}

// NewUnauthenticatedError creates a new UnauthenticatedError
func NewUnauthenticatedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthenticatedError, message, underlyingError)
}

// NewForbiddenError creates a new ForbiddenError
func NewForbiddenError(message string, underlyingError error) *AppError {
	return NewAppError(ForbiddenError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// ErrorResponse represents a generic error response payload for API clients.
type ErrorResponse struct {
	// `example` is a struct tag used by Swagger/OpenAPI documentation generators.
	Error string `json:"error" example:"A description of the error"`
	Code  string `json:"code" example:"INVALID_INPUT"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing `Message` is included, never the underlying `Err` details.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Code()}
}

// FromError attempts to convert a generic error to an *AppError.
// It walks the wrap chain, so an *AppError wrapped with fmt.Errorf("%w") is still found.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper functions to check error types

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return isType(err, NotFoundError)
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	return isType(err, ValidationError)
}

// IsDuplicateUsername checks if an error is a DuplicateUsername error
func IsDuplicateUsername(err error) bool {
	return isType(err, DuplicateUsernameError)
}

// IsInvalidCredentials checks if an error is an InvalidCredentials error
func IsInvalidCredentials(err error) bool {
	return isType(err, InvalidCredentialsError)
}

// IsUnauthenticated checks if an error is an Unauthenticated error
func IsUnauthenticated(err error) bool {
	return isType(err, UnauthenticatedError)
}

// IsForbidden checks if an error is a Forbidden error
func IsForbidden(err error) bool {
	return isType(err, ForbiddenError)
}
