package storage

import (
	"errors"
	"fmt"
)

// ============================================================================
// STORAGE ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.

const (
	codeInvalid  = "invalid"
	codeNotFound = "not_found"
)

// StorageError represents a storage-specific error with a code and message.
type StorageError struct {
	Code    string
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for status mapping.
func (e *StorageError) ErrorCode() string {
	return e.Code
}

// ErrRecordNotFound is returned by Get when nothing is stored under a key.
var ErrRecordNotFound = &StorageError{Code: codeNotFound, Message: "record not found"}

// IsNotFound reports whether err means the key holds no value.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// ErrInvalidKey creates an error for keys a provider cannot store.
func ErrInvalidKey(key string) error {
	return &StorageError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("invalid storage key: %q", key),
	}
}

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return &StorageError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("unknown storage provider: %s", provider),
	}
}
