package dto

import (
	"net/http"

	"github.com/stockyard/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes pass through unchanged so
// clients can match on the same strings the services produce.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// State-machine violations and ledger rule breaches are 422; lost races
// on a one-shot mutation are 409.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	shared.ErrCodeValidation:    http.StatusBadRequest,
	shared.ErrCodeNotFound:      http.StatusNotFound,
	shared.ErrCodeAlreadyExists: http.StatusConflict,
	shared.ErrCodeNotOwner:      http.StatusForbidden,

	shared.ErrCodeConcurrencyConflict: http.StatusConflict,
	shared.ErrCodeAlreadyReversed:     http.StatusConflict,
	shared.ErrCodeAlreadyResolved:     http.StatusConflict,
	shared.ErrCodeAlreadyCompleted:    http.StatusConflict,
	shared.ErrCodeUndoWindowExpired:   http.StatusConflict,

	shared.ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	shared.ErrCodeInvalidTransition:   http.StatusUnprocessableEntity,
	shared.ErrCodeInvalidStopSequence: http.StatusUnprocessableEntity,
	shared.ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the status for an error code, defaulting to 500
// for anything unmapped.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
