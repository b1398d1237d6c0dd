package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents a typed error with HTTP awareness. Upstream backend failures
// carry the backend status and, when present, the backend's own message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so that cloned sentinels still
// satisfy errors.Is against the original.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound        = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden       = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized    = New("UNAUTHORIZED", http.StatusUnauthorized, "session expired, please sign in again")
	ErrValidation      = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal        = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrUpstream        = New("UPSTREAM_ERROR", http.StatusBadGateway, "backend request failed")
	ErrUnavailable     = New("UPSTREAM_UNAVAILABLE", http.StatusServiceUnavailable, "backend unreachable")
	ErrNothingToExport = New("NOTHING_TO_EXPORT", http.StatusConflict, "No records to export. Please wait for data to load.")
	ErrExportFailed    = New("EXPORT_FAILED", http.StatusInternalServerError, "export failed")
	ErrStoreMiss       = New("STORE_MISS", http.StatusNotFound, "key not found")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// FromResponse builds an error for a non-2xx backend response. The backend
// reports failures as {"msg": ...} on permit routes and {"message": ...} on
// report/profile routes; either wins over the fallback.
func FromResponse(status int, body []byte, fallback string) *Error {
	msg := ServerMessage(body)
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	code := ErrUpstream.Code
	switch status {
	case http.StatusUnauthorized:
		code = ErrUnauthorized.Code
	case http.StatusForbidden:
		code = ErrForbidden.Code
	case http.StatusNotFound:
		code = ErrNotFound.Code
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = ErrValidation.Code
	}
	return &Error{Code: code, Status: status, Message: msg}
}

// ServerMessage extracts the backend-supplied message from a JSON body.
func ServerMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, candidate := range []string{payload.Msg, payload.Message, payload.Error} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return ""
}

// UserMessage returns the message a user should see for err, falling back to
// the provided generic description when the backend supplied none.
func UserMessage(err error, fallback string) string {
	var e *Error
	if !errors.As(err, &e) || e.Message == "" {
		return fallback
	}
	switch e.Code {
	case ErrInternal.Code, ErrUnavailable.Code:
		return fallback
	}
	if e.Message == http.StatusText(e.Status) {
		return fallback
	}
	return e.Message
}
