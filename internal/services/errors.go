// Package services holds the analysis use cases shared by the HTTP API,
// the async job worker and the CLI.
package services

import (
	"errors"
	"net/http"
)

// Service error codes
const (
	CodeInvalidModel      = "INVALID_MODEL"
	CodeInvalidParameters = "INVALID_PARAMETERS"
	CodeInvalidSeries     = "INVALID_SERIES"
	CodeNotFitted         = "NOT_FITTED"
	CodeJobNotFound       = "JOB_NOT_FOUND"
	CodeQueueUnavailable  = "QUEUE_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// HTTPStatus maps the error code to a response status
func (e *ServiceError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidModel, CodeInvalidParameters, CodeInvalidSeries:
		return http.StatusBadRequest
	case CodeNotFitted:
		return http.StatusConflict
	case CodeJobNotFound:
		return http.StatusNotFound
	case CodeQueueUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// AsServiceError unwraps err into a ServiceError, wrapping foreign errors as internal
func AsServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return NewServiceError(CodeInternal, err.Error())
}
