// Package apierr defines the typed error that crosses component boundaries.
// The HTTP handler is the only place that translates these into wire
// responses.
package apierr

import (
	"errors"
	"fmt"
)

// Stable wire codes.
const (
	CodeInvalidJSON          = "invalid_json"
	CodeInvalidRequest       = "invalid_request"
	CodeInputTooShort        = "input_too_short"
	CodeGenerationDisabled   = "generation_disabled"
	CodeRateLimited          = "rate_limited"
	CodeDailyLimitReached    = "daily_limit_reached"
	CodeProviderTimeout      = "provider_timeout"
	CodeProviderError        = "provider_error"
	CodeEmptyOutput          = "empty_output"
	CodeProviderNotSupported = "provider_not_supported"
)

// Error carries an HTTP status and a stable code alongside a caller-safe
// message. The wrapped cause is for logs only and never reaches the wire.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New builds an Error without a cause.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap builds an Error around a cause.
func Wrap(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

// From extracts an *Error from an error chain.
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
