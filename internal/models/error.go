package models

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"

	// Admission errors (user-recoverable: pick another slot)
	ErrCodeSlotFull = "SLOT_FULL"

	// Validation errors (user-recoverable: fix the form)
	ErrCodeEmptyOrder      = "EMPTY_ORDER"
	ErrCodeUnavailableItem = "UNAVAILABLE_ITEM"
	ErrCodeCrossStall      = "CROSS_STALL"

	// Lifecycle errors (operator-facing: rejected operation)
	ErrCodeTerminalState      = "TERMINAL_STATE"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeCancellationClosed = "CANCELLATION_WINDOW_CLOSED"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
