// Package errors defines the application error taxonomy. Errors carry a
// stable code, an operator-facing message, optional structured details and
// the HTTP status they map to at the API boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ServiceError is the error type surfaced by application services. Handlers
// translate it to a JSON body using Code, Message and Details, with
// HTTPStatus as the response status.
type ServiceError struct {
	Code       string                 `json:"error"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Err        error                  `json:"-"`
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// WithDetails returns the error with an additional detail attached.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ConfigurationError reports an invalid or missing configuration value.
// It is startup-fatal: the process must not start while one is pending.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Configuration builds a ConfigurationError for the named field.
func Configuration(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return stderrors.As(err, &cfgErr)
}

// Validation reports invalid input data.
func Validation(message string) *ServiceError {
	return &ServiceError{Code: "ValidationError", Message: message, HTTPStatus: http.StatusBadRequest}
}

// NotFound reports a missing resource.
func NotFound(resource string) *ServiceError {
	return &ServiceError{
		Code:       "NotFoundError",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict reports a resource conflict.
func Conflict(message string) *ServiceError {
	return &ServiceError{Code: "ConflictError", Message: message, HTTPStatus: http.StatusConflict}
}

// Unauthorized reports a failed authentication.
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Code: "AuthenticationError", Message: message, HTTPStatus: http.StatusUnauthorized}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *ServiceError {
	return &ServiceError{Code: "InternalServerError", Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// External wraps a failed call to an external collaborator.
func External(service string, err error) *ServiceError {
	return &ServiceError{
		Code:       "ExternalServiceError",
		Message:    fmt.Sprintf("call to %s failed", service),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// Database wraps a failed storage operation.
func Database(operation string, err error) *ServiceError {
	return &ServiceError{
		Code:       "DatabaseError",
		Message:    fmt.Sprintf("database %s failed", operation),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// RateLimitExceeded reports that a client exhausted its request budget.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return &ServiceError{
		Code:       "RateLimitExceeded",
		Message:    "rate limit exceeded",
		HTTPStatus: http.StatusTooManyRequests,
		Details:    map[string]interface{}{"limit": limit, "window": window},
	}
}

// GetServiceError converts an arbitrary error to a ServiceError. Known
// application errors pass through; a ConfigurationError maps to an internal
// error naming the field; anything else becomes a generic internal error.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr
	}
	var cfgErr *ConfigurationError
	if stderrors.As(err, &cfgErr) {
		return Internal("invalid configuration", err).WithDetails("field", cfgErr.Field)
	}
	return Internal("an unexpected error occurred", err)
}
