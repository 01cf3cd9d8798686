package dto

import "net/http"

// Error code constants, format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for the current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Upstream error codes
const (
	// ErrCodeUpstreamUnavailable is used when a backing data source cannot be reached
	ErrCodeUpstreamUnavailable = "ERR_UPSTREAM_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeUpstreamUnavailable: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to the wire format
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"UPSTREAM_UNAVAILABLE": ErrCodeUpstreamUnavailable,
}

// NormalizeErrorCode converts a domain error code to the standardized wire
// format. If the code is already in the wire format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := domainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
