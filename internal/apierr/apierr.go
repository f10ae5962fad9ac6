package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

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
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

const (
	CodeNotFound          = "not_found"
	CodeValidation        = "validation_failed"
	CodeConfiguration     = "configuration_error"
	CodeServiceOverloaded = "service_overloaded"
	CodeQuotaExceeded     = "quota_exceeded"
	CodeTimeout           = "timeout"
	CodeUnavailable       = "service_unavailable"
	CodePersistence       = "persistence_error"
)

func NotFound(err error) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Err: err}
}

func Validation(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Err: err}
}

func Persistence(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodePersistence, Err: err}
}

// The generation categories are presentation-facing: Message is the one
// short sentence a client may show, Err keeps the underlying cause for
// logs.
func Configuration(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeConfiguration,
		Message: "AI quiz generation is not configured. Please contact support.",
		Err:     err,
	}
}

func ServiceOverloaded(err error) *Error {
	return &Error{
		Status:  http.StatusServiceUnavailable,
		Code:    CodeServiceOverloaded,
		Message: "The AI service is overloaded right now. Please try again in a moment.",
		Err:     err,
	}
}

func QuotaExceeded(err error) *Error {
	return &Error{
		Status:  http.StatusTooManyRequests,
		Code:    CodeQuotaExceeded,
		Message: "The AI service quota has been exhausted. Please try again later.",
		Err:     err,
	}
}

func Timeout(err error) *Error {
	return &Error{
		Status:  http.StatusGatewayTimeout,
		Code:    CodeTimeout,
		Message: "The AI service took too long to respond. Please try again.",
		Err:     err,
	}
}

func Unavailable(err error) *Error {
	return &Error{
		Status:  http.StatusBadGateway,
		Code:    CodeUnavailable,
		Message: "Quiz generation is unavailable right now. Please try again.",
		Err:     err,
	}
}

// UserMessage returns the sentence safe to show an end user. Raw transport
// errors never leak through this path.
func (e *Error) UserMessage() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error()
}

func HasCode(err error, code string) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool   { return HasCode(err, CodeNotFound) }
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }
