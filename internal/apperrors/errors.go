package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrRateSourceUnavailable indicates the external exchange rate provider
// failed or returned an unreadable payload. Transport detail stays wrapped
// behind this sentinel and is never shown to API callers.
var ErrRateSourceUnavailable = errors.New("exchange rate source unavailable")

// ErrHandlerNotRegistered indicates a request was dispatched with no handler
// registered for its type. This is a wiring bug, not a user-facing condition.
var ErrHandlerNotRegistered = errors.New("no handler registered for request")

// RequestValidationError carries per-field validation messages for a rejected
// command. It unwraps to ErrValidation so callers can branch with errors.Is.
type RequestValidationError struct {
	Fields map[string][]string
}

func (e *RequestValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("request validation failed: %s", strings.Join(names, ", "))
}

func (e *RequestValidationError) Unwrap() error {
	return ErrValidation
}

// NewRequestValidationError copies the given field error map into a new
// RequestValidationError.
func NewRequestValidationError(fields map[string][]string) *RequestValidationError {
	copied := make(map[string][]string, len(fields))
	for name, msgs := range fields {
		copied[name] = append([]string(nil), msgs...)
	}
	return &RequestValidationError{Fields: copied}
}

// CurrencyConversionError is the single business error kind for conversion
// failures: missing target currency, no usable rate, or an unavailable rate
// source. The message is safe to show to API callers.
type CurrencyConversionError struct {
	Message string
}

func (e *CurrencyConversionError) Error() string {
	return e.Message
}

// NewCurrencyConversionError builds a CurrencyConversionError with a
// formatted message.
func NewCurrencyConversionError(format string, args ...any) *CurrencyConversionError {
	return &CurrencyConversionError{Message: fmt.Sprintf(format, args...)}
}
