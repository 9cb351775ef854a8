// Package errors defines custom error types for better error handling and debugging.
// CatalogError separates caller mistakes, missing upstream data and upstream
// failures so the transport layer can answer each one differently.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// CatalogError represents errors that occur while serving catalog requests
type CatalogError struct {
	Type    string
	Message string
	Cause   error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeClient   = "CLIENT_ERROR"
	ErrorTypeUpstream = "UPSTREAM_ERROR"
	ErrorTypeNotFound = "NOT_FOUND"
)

// NewCatalogError creates a new CatalogError
func NewCatalogError(errorType, message string, cause error) *CatalogError {
	return &CatalogError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewClientError creates an error for a missing or invalid request parameter
func NewClientError(message string) *CatalogError {
	return NewCatalogError(ErrorTypeClient, message, nil)
}

// NewMissingParamError creates a client error naming the absent parameter
func NewMissingParamError(param string) *CatalogError {
	return NewClientError(fmt.Sprintf("missing required parameter: %s", param))
}

// NewUpstreamError creates an error for a failed exchange with the provider
func NewUpstreamError(message string, cause error) *CatalogError {
	return NewCatalogError(ErrorTypeUpstream, message, cause)
}

// NewNotFoundError creates an error for a target absent from upstream data
func NewNotFoundError(what, id string) *CatalogError {
	return NewCatalogError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", what, id), nil)
}

func hasType(err error, errorType string) bool {
	var ce *CatalogError
	return stderrors.As(err, &ce) && ce.Type == errorType
}

// IsClientError reports whether err is a CLIENT_ERROR
func IsClientError(err error) bool { return hasType(err, ErrorTypeClient) }

// IsUpstreamError reports whether err is an UPSTREAM_ERROR
func IsUpstreamError(err error) bool { return hasType(err, ErrorTypeUpstream) }

// IsNotFound reports whether err is a NOT_FOUND error
func IsNotFound(err error) bool { return hasType(err, ErrorTypeNotFound) }

// HTTPStatus maps an error to the status code returned to clients.
func HTTPStatus(err error) int {
	switch {
	case IsClientError(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsUpstreamError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a client: the error's own
// message without the wrapped cause chain.
func PublicMessage(err error) string {
	var ce *CatalogError
	if stderrors.As(err, &ce) {
		return ce.Message
	}
	return "internal error"
}
