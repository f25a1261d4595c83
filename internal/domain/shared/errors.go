package shared

import "fmt"

// DomainError carries a stable machine-readable code alongside a
// human-readable message. Handlers map codes to HTTP statuses.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func NewDomainErrorf(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Stable error codes shared across domains.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"

	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeUndoWindowExpired   = "UNDO_WINDOW_EXPIRED"
	ErrCodeAlreadyReversed     = "ALREADY_REVERSED"
	ErrCodeNotOwner            = "NOT_OWNER"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeInvalidStopSequence = "INVALID_STOP_SEQUENCE"
	ErrCodeAlreadyCompleted    = "ALREADY_COMPLETED"
	ErrCodeAlreadyResolved     = "ALREADY_RESOLVED"
)

func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

func NewNotFoundError(entity string) *DomainError {
	return NewDomainErrorf(ErrCodeNotFound, "%s not found", entity)
}

func NewConcurrencyConflictError(entity string) *DomainError {
	return NewDomainErrorf(ErrCodeConcurrencyConflict, "%s was modified concurrently, retry the operation", entity)
}

func IsDomainError(err error) (*DomainError, bool) {
	domainErr, ok := err.(*DomainError)
	return domainErr, ok
}

func IsErrorCode(err error, code string) bool {
	if domainErr, ok := IsDomainError(err); ok {
		return domainErr.Code == code
	}
	return false
}
