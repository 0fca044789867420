package errorutil

import (
	"errors"
	"fmt"
)

// Error is a backend failure carrying its HTTP status and whether a retry can help.
type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Code)
}

// Retriable creates an error for transient failures (network, 5xx).
func Retriable(code int, message string) *Error {
	return &Error{Code: code, Message: message, Retryable: true}
}

// RetriableWithDetails is Retriable plus developer details.
func RetriableWithDetails(code int, message, details string) *Error {
	return &Error{Code: code, Message: message, Retryable: true, DevDetails: details}
}

// NonRetriable creates an error the user has to act on (4xx, business rules).
func NonRetriable(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// FromStatus classifies an HTTP status code.
func FromStatus(code int, message string) *Error {
	if code >= 500 || code == 429 || code == 408 {
		return Retriable(code, message)
	}
	return NonRetriable(code, message)
}

// IsRetryable reports whether err, or anything it wraps, is a retryable *Error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
