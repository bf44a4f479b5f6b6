package apperrors

import (
	"errors"
	"fmt"

	"labsched/internal/platform/text"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrNotFound               = errors.New("not found")
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrRequestFailed          = errors.New("request failed")
	ErrSessionDataCorrupt     = errors.New("session data corrupt")
	ErrMalformedResponse      = errors.New("malformed response")
)

// RequestError is a non-success, non-401 HTTP response. Message is either the
// server-provided detail, reduced to one line of printable text, or a generic
// status line.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}

func NewRequestError(status int, detail string) *RequestError {
	detail = text.SingleLine(detail)
	if detail == "" {
		detail = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &RequestError{Status: status, Message: detail}
}
