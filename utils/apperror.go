package utils

import (
	"errors"
	"fmt"
)

// Error codes shared by the booking, payment and review services.
const (
	CodeNotFound          = "not_found"
	CodeForbidden         = "forbidden"
	CodeInvalidState      = "invalid_state"
	CodeInvalidTransition = "invalid_transition"
	CodeConflict          = "conflict"
	CodeDeadlineExceeded  = "deadline_exceeded"
	CodeValidation        = "validation_error"
	CodeGateway           = "gateway_error"
)

// AppError is a recoverable business error surfaced to the caller.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code, format string, args ...any) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func NotFoundErr(format string, args ...any) *AppError {
	return NewAppError(CodeNotFound, format, args...)
}

func ForbiddenErr(format string, args ...any) *AppError {
	return NewAppError(CodeForbidden, format, args...)
}

func InvalidStateErr(format string, args ...any) *AppError {
	return NewAppError(CodeInvalidState, format, args...)
}

// InvalidTransitionErr names both the current and the requested state.
func InvalidTransitionErr(current, requested string) *AppError {
	return NewAppError(CodeInvalidTransition, "cannot transition booking from %q to %q", current, requested)
}

func ConflictErr(format string, args ...any) *AppError {
	return NewAppError(CodeConflict, format, args...)
}

func DeadlineExceededErr(format string, args ...any) *AppError {
	return NewAppError(CodeDeadlineExceeded, format, args...)
}

func ValidationErr(format string, args ...any) *AppError {
	return NewAppError(CodeValidation, format, args...)
}

func GatewayErr(format string, args ...any) *AppError {
	return NewAppError(CodeGateway, format, args...)
}

// ErrorCode extracts the AppError code from err, unwrapping as needed.
// Returns an empty string for non-business errors.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsAppError reports the AppError inside err, or nil.
func IsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
