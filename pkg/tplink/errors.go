package tplink

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeAuth    ErrorType = "authentication"
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeConfig  ErrorType = "config"
)

// Error represents a switch client error
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same type and message, so wrapped
// sentinels compare equal under errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// IsErrorType reports whether err wraps an *Error of the given type
func IsErrorType(err error, errorType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errorType
}

// Sentinel errors
var (
	ErrInvalidCredentials = &Error{Type: ErrorTypeAuth, Message: "login failure - bad credentials?"}
	ErrPasswordRequired   = &Error{Type: ErrorTypeConfig, Message: "password is required"}
	ErrUnexpectedPage     = &Error{Type: ErrorTypeParsing, Message: "unexpected statistics page"}
)

// NewError creates a new switch client error
func NewError(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewAuthError creates a new authentication error
func NewAuthError(message string, cause error) *Error {
	return NewError(ErrorTypeAuth, message, cause)
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *Error {
	return NewError(ErrorTypeNetwork, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *Error {
	return NewError(ErrorTypeTimeout, message, cause)
}

// NewParsingError creates a new parsing error
func NewParsingError(message string, cause error) *Error {
	return NewError(ErrorTypeParsing, message, cause)
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, cause error) *Error {
	return NewError(ErrorTypeConfig, message, cause)
}
