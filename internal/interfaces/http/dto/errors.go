package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes are reused verbatim.
const (
	ErrCodeValidation      = shared.CodeValidationFailed
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeUnauthorized    = shared.CodeUnauthorized
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "INVALID_TOKEN"
	ErrCodeForbidden       = shared.CodeForbidden
	ErrCodeNotFound        = shared.CodeNotFound
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Input
	ErrCodeBadRequest:           http.StatusBadRequest,
	shared.CodeValidationFailed: http.StatusBadRequest,
	shared.CodeInvalidQuantity:  http.StatusBadRequest,

	// Auth
	shared.CodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	// Resources
	shared.CodeNotFound:               http.StatusNotFound,
	shared.CodeInvalidTransition:      http.StatusConflict,
	shared.CodeConcurrentModification: http.StatusConflict,

	// Business rules
	shared.CodeInsufficientStock: http.StatusUnprocessableEntity,
	shared.CodeIncompleteProfile: http.StatusUnprocessableEntity,

	// Limits
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// Server side
	ErrCodeInternal:               http.StatusInternalServerError,
	shared.CodeDataIntegrity:      http.StatusInternalServerError,
	shared.CodeCompensationFailed: http.StatusInternalServerError,
	shared.CodeNotificationFailed: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
