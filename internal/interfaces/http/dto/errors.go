package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	// ErrCodeInvalidTenant is used when X-Tenant-ID is not a uuid
	ErrCodeInvalidTenant = "ERR_INVALID_TENANT"
)

// Rate limiting and timeout error codes
const (
	ErrCodeRateLimited    = "ERR_RATE_LIMITED"
	ErrCodeRequestTimeout = "ERR_REQUEST_TIMEOUT"
	ErrCodeBodyTooLarge   = "ERR_BODY_TOO_LARGE"
)

// Document rendering and storage codes, shared with the printing infrastructure
const (
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeInvalidHTML    = "INVALID_HTML"
	ErrCodeStorageFailed  = "STORAGE_FAILED"
	ErrCodeExportFormat   = "INVALID_EXPORT_FORMAT"
	ErrCodeInvalidID      = "INVALID_ID"
	ErrCodeServiceUnavail = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidJSON:   http.StatusBadRequest,
	ErrCodeInvalidTenant: http.StatusBadRequest,

	ErrCodeRateLimited:    http.StatusTooManyRequests,
	ErrCodeRequestTimeout: http.StatusGatewayTimeout,
	ErrCodeBodyTooLarge:   http.StatusRequestEntityTooLarge,

	// Rendering: the PDF is the only output of the request, so failures surface
	ErrCodeRenderTimeout:  http.StatusGatewayTimeout,
	ErrCodeRenderFailed:   http.StatusBadGateway,
	ErrCodeInvalidHTML:    http.StatusInternalServerError,
	ErrCodeStorageFailed:  http.StatusServiceUnavailable,
	ErrCodeServiceUnavail: http.StatusServiceUnavailable,

	// Duplicate actions and concurrent transitions -> 409
	"ORDER_BUSY":           http.StatusConflict,
	"ICE_ALREADY_EXISTS":   http.StatusConflict,
	"ALREADY_INVOICED":     http.StatusConflict,
	"ORDER_INVOICED":       http.StatusConflict,
	"INVOICE_NUMBER_TAKEN": http.StatusConflict,
	"CLIENT_IN_USE":        http.StatusConflict,
	"SUPPLIER_IN_USE":      http.StatusConflict,

	// Business rules -> 422
	"ORDER_LOCKED":              http.StatusUnprocessableEntity,
	"PRODUCT_IN_USE":            http.StatusUnprocessableEntity,
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"INVOICE_NO_CLIENT":         http.StatusUnprocessableEntity,
	"INVOICE_NO_ITEMS":          http.StatusUnprocessableEntity,
	"NO_ITEMS":                  http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted codes ending in _NOT_FOUND map to 404 and codes starting with
// INVALID_ to 400; anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps the generic domain codes to standardized codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONFLICT":             ErrCodeConflict,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a generic domain code to the standardized format.
// Context-specific codes (ORDER_LOCKED, PRODUCT_NOT_FOUND...) pass through.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
