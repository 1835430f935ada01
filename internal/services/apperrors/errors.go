// File: internal/services/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypePayloadTooLarge ErrorType = "PAYLOAD_TOO_LARGE"
	ErrTypeNotFound        ErrorType = "NOT_FOUND"
	ErrTypeStorage         ErrorType = "STORAGE"
	ErrTypeBlobStorage     ErrorType = "BLOB_STORAGE"
	ErrTypeUpstream        ErrorType = "UPSTREAM"
)

// AppError is the shared error shape for all core services. Type drives the
// HTTP mapping in the handler layer; Operation and the optional Cause keep
// enough context for the caller to decide whether a retry makes sense.
type AppError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *AppError {
	return &AppError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewPayloadTooLargeError(operation, msg string) *AppError {
	return &AppError{Type: ErrTypePayloadTooLarge, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string) *AppError {
	return &AppError{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}

func NewStorageError(operation, msg string, cause error) *AppError {
	return &AppError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}

func NewBlobStorageError(operation, msg string, cause error) *AppError {
	return &AppError{Type: ErrTypeBlobStorage, Operation: operation, Message: msg, Cause: cause}
}

func NewUpstreamError(operation, msg string, cause error) *AppError {
	return &AppError{Type: ErrTypeUpstream, Operation: operation, Message: msg, Cause: cause}
}

func typeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

func IsValidation(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeValidation
}

func IsPayloadTooLarge(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypePayloadTooLarge
}

func IsNotFound(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeNotFound
}

func IsStorage(err error) bool {
	t, ok := typeOf(err)
	return ok && (t == ErrTypeStorage || t == ErrTypeBlobStorage)
}

func IsUpstream(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTypeUpstream
}
