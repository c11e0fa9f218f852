package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrConflict
	ErrInternal
	ErrUnavailable
)

// Domain error codes
const (
	ErrDuplicateEmail ErrorCode = iota + 2000
	ErrInvalidCredentials
	ErrInvalidSlot
	ErrSlotUnavailable
	ErrAppointmentNotFound
	ErrMissingCredential
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// Domain error constructors
func DuplicateEmail(email string) *AppError {
	return &AppError{
		Code:    ErrDuplicateEmail,
		Message: fmt.Sprintf("email %s is already registered", email),
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Code:    ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

func InvalidSlot(slotID string) *AppError {
	return &AppError{
		Code:    ErrInvalidSlot,
		Message: fmt.Sprintf("slot %s is invalid for this doctor", slotID),
	}
}

func SlotUnavailable(slotID string) *AppError {
	return &AppError{
		Code:    ErrSlotUnavailable,
		Message: fmt.Sprintf("slot %s is already booked", slotID),
	}
}

func AppointmentNotFound(appointmentID string) *AppError {
	return &AppError{
		Code:    ErrAppointmentNotFound,
		Message: fmt.Sprintf("appointment %s not found", appointmentID),
	}
}

func MissingCredential(name string) *AppError {
	return &AppError{
		Code:    ErrMissingCredential,
		Message: fmt.Sprintf("%s is not configured", name),
	}
}

// CodeOf extracts the error code from err, or ErrInternal when err is not an
// AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
