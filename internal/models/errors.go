package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MissingInputError reports a required field that resolved to nothing.
type MissingInputError struct {
	Field   InputField
	Message string
}

func (e *MissingInputError) Error() string { return e.Message }

func NewMissingInputError(field InputField, operation OperationKind, conditional bool) *MissingInputError {
	msg := fmt.Sprintf("Either '%s' or '%s' must be provided for the %s",
		field.FileKey(), field.TextKey(), field.DisplayName())
	if conditional {
		msg = fmt.Sprintf("%s (required by the %s operation)", msg, operation)
	}
	return &MissingInputError{Field: field, Message: msg}
}

type UnsupportedFormatError struct {
	Field     InputField
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("Unsupported file type %s for %s. Allowed: %s",
		ext, e.Field.DisplayName(), strings.Join(AllowedExtensions, ", "))
}

type FileTooLargeError struct {
	Field   InputField
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s file too large. Max size: %d bytes", e.Field.DisplayName(), e.MaxSize)
}

type InvalidParameterError struct {
	Name    string
	Message string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Name, e.Message)
}

// ExtractionError means a file was accepted but no text could be read from it.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// GatewayError is a failed completion call. Status follows HTTP semantics
// so front ends can pass it through.
type GatewayError struct {
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("model gateway error (%d): %s", e.Status, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed.
func (e *GatewayError) Retryable() bool {
	switch e.Status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ErrorKind is the short label used in metrics and error envelopes.
func ErrorKind(err error) string {
	var (
		missing     *MissingInputError
		unsupported *UnsupportedFormatError
		tooLarge    *FileTooLargeError
		invalid     *InvalidParameterError
		extraction  *ExtractionError
		gateway     *GatewayError
	)
	switch {
	case errors.As(err, &missing):
		return "missing_input"
	case errors.As(err, &unsupported):
		return "unsupported_format"
	case errors.As(err, &tooLarge):
		return "file_too_large"
	case errors.As(err, &invalid):
		return "invalid_parameter"
	case errors.As(err, &extraction):
		return "extraction_failed"
	case errors.As(err, &gateway):
		return "gateway_error"
	default:
		return "internal_error"
	}
}
