package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vinayakp/wcauction/internal/infrastructure/store"
)

// AppError represents an application error
type AppError struct {
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	HTTPStatus int       `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	Path       string    `json:"path,omitempty"`
	Method     string    `json:"method,omitempty"`
	Err        error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
		Err:        err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *AppError {
	return NewAppError(code, message, http.StatusBadRequest, nil)
}

// NewStateError creates an error for an operation that is not valid in the
// current lifecycle state
func NewStateError(code, message string) *AppError {
	return NewAppError(code, message, http.StatusConflict, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(code, resource string) *AppError {
	return NewAppError(code, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Unauthorized access"
	}
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewInternalError creates an internal server error
func NewInternalError(message string, err error) *AppError {
	if message == "" {
		message = "Internal server error"
	}
	return NewAppError(ErrCodeSystem, message, http.StatusInternalServerError, err)
}

// NewStoreError creates an error for a persistence failure
func NewStoreError(operation string, err error) *AppError {
	return NewAppError(ErrCodeStore, fmt.Sprintf("Store operation failed: %s", operation), http.StatusInternalServerError, err)
}

// WrapStoreError converts a store failure into its application error. A
// transaction that exhausted its retries maps to TX_CONFLICT so callers can
// tell a retryable abort from a permanently invalid request; a schema
// violation maps to INVALID_FIELD. Application errors pass through.
func WrapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := IsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, store.ErrConflict):
		return NewAppError(ErrCodeTxConflict,
			fmt.Sprintf("Operation aborted by concurrent writes: %s", operation),
			http.StatusConflict, err)
	case errors.Is(err, store.ErrInvalidField):
		return NewAppError(ErrCodeInvalidField,
			fmt.Sprintf("Query references an unqueryable field: %s", operation),
			http.StatusBadRequest, err)
	}
	return NewStoreError(operation, err)
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *AppError) ErrorResponse {
	return ErrorResponse{
		Error:   err,
		Success: false,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Code == code
}

// Error codes for different categories of errors
const (
	// Validation
	ErrCodeInvalidAmount    = "INVALID_AMOUNT"
	ErrCodeInvalidTagList   = "INVALID_TAG_LIST"
	ErrCodeInvalidScoreData = "INVALID_SCORE_DATA"
	ErrCodeInvalidFormat    = "INVALID_FORMAT"
	ErrCodeRequiredField    = "REQUIRED_FIELD"

	// Lifecycle state
	ErrCodeBidInProgress      = "BID_IN_PROGRESS"
	ErrCodePlayerNotAvailable = "PLAYER_NOT_AVAILABLE"
	ErrCodePlayerNotInvited   = "PLAYER_NOT_INVITED"
	ErrCodeAlreadyBid         = "ALREADY_BID"
	ErrCodeNoMorePlayers      = "NO_MORE_PLAYERS"
	ErrCodeBiddingNotStarted  = "BIDDING_NOT_STARTED"
	ErrCodeBiddingComplete    = "BIDDING_COMPLETE"

	// Resources
	ErrCodePlayerNotFound = "PLAYER_NOT_FOUND"
	ErrCodeBidNotFound    = "BID_NOT_FOUND"
	ErrCodeUserNotFound   = "USER_NOT_FOUND"

	// Balance
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"

	// Persistence
	ErrCodeStore        = "STORE_ERROR"
	ErrCodeTxConflict   = "TX_CONFLICT"
	ErrCodeInvalidField = "INVALID_FIELD"

	// Setup
	ErrCodeGameNotReady = "GAME_NOT_READY"

	// Auth
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeTokenMissing       = "TOKEN_MISSING"
	ErrCodeUnauthorized       = "UNAUTHORIZED"

	// System
	ErrCodeSystem = "SYSTEM_ERROR"
)
