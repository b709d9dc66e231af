package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeAuthenticationMissing ErrorType = "AUTHENTICATION_MISSING"
	ErrorTypeAuthorizationDenied   ErrorType = "AUTHORIZATION_DENIED"
	ErrorTypeRequestFailed         ErrorType = "REQUEST_FAILED"
	ErrorTypeValidation            ErrorType = "VALIDATION_FAILED"
	ErrorTypeDecodeFailed          ErrorType = "DECODE_FAILED"
	ErrorTypeInternal              ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequiredField     ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidDate       ErrorCode = "INVALID_DATE"
	ErrCodeDateOrder         ErrorCode = "DATE_ORDER"
	ErrCodeInvalidNumber     ErrorCode = "INVALID_NUMBER"
	ErrCodeNegativeNumber    ErrorCode = "NEGATIVE_NUMBER"
	ErrCodeInvalidChoice     ErrorCode = "INVALID_CHOICE"
	ErrCodeContractViolation ErrorCode = "CONTRACT_VIOLATION"

	ErrCodeNoSession       ErrorCode = "NO_SESSION"
	ErrCodeAdminRequired   ErrorCode = "ADMIN_REQUIRED"
	ErrCodeSessionExpired  ErrorCode = "SESSION_EXPIRED"
	ErrCodeBackendResponse ErrorCode = "BACKEND_RESPONSE"
	ErrCodeBackendOffline  ErrorCode = "BACKEND_UNREACHABLE"
	ErrCodeTokenUnreadable ErrorCode = "TOKEN_UNREADABLE"
	ErrCodeMissingToken    ErrorCode = "MISSING_ACCESS_TOKEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins every field message, for inline form errors.
func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

// FieldMessage returns the first message recorded for field, if any.
func (e *AppError) FieldMessage(field string) string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok {
		for _, fe := range validationErrors.Errors {
			if fe.Field == field {
				return fe.Message
			}
		}
	}
	return ""
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so sentinel AppErrors work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusUnprocessableEntity,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewAuthenticationMissingError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthenticationMissing,
		Code:       ErrCodeNoSession,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewAuthorizationDeniedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthorizationDenied,
		Code:       ErrCodeAdminRequired,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewRequestFailedError describes a non-2xx backend response. status is the
// backend status, kept so callers can tell 404 from 500.
func NewRequestFailedError(message string, status int) *AppError {
	code := ErrCodeBackendResponse
	if status == http.StatusUnauthorized {
		code = ErrCodeSessionExpired
	}
	return &AppError{
		Type:       ErrorTypeRequestFailed,
		Code:       code,
		Message:    message,
		StatusCode: status,
	}
}

func NewBackendUnreachableError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeRequestFailed,
		Code:       ErrCodeBackendOffline,
		Message:    "Cannot connect to the server. Please check your network connection.",
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

func NewDecodeFailedError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDecodeFailed,
		Code:       ErrCodeTokenUnreadable,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Cause:      cause,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrAuthenticationMissing = NewAuthenticationMissingError("Not authenticated. Please login.")
	ErrAuthorizationDenied   = NewAuthorizationDeniedError("You are not authorized to view this page.")
	ErrSessionExpired        = NewRequestFailedError("Your session has expired. Please login again.", http.StatusUnauthorized)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// UserMessage is the text shown inline for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := IsAppError(err); ok {
		if appErr.Type == ErrorTypeValidation {
			return appErr.GetDetailedMessage()
		}
		return appErr.Message
	}
	return "An unexpected error occurred. Please try again."
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
