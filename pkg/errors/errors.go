package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code represents a stable error code for programmatic handling.
type Code string

const (
	CodeUnknown         Code = "unknown"
	CodeValidation      Code = "validation"
	CodeUnauthenticated Code = "unauthenticated"
	CodeUnreachable     Code = "unreachable"
	CodeRejected        Code = "rejected"
	CodeUnparseable     Code = "unparseable"
	CodeNotFound        Code = "not_found"
	CodeConflict        Code = "conflict"
	CodeBusy            Code = "busy"
	CodeCanceled        Code = "canceled"
	CodeInternal        Code = "internal"
)

// Fallback texts surfaced when the server gives nothing usable.
const (
	GenericServerText      = "The server rejected the request"
	GenericUnparseableText = "Could not parse the server response"
	GenericUnreachableText = "Can't reach the server. Check your connection and retry"
)

// AppError is a structured error type that carries a code, message, and optional metadata.
// Status is the HTTP status for errors that came back from a backend (0 otherwise);
// Fields holds field-scoped messages keyed by payload field name.
type AppError struct {
	Code    Code
	Message string
	Status  int
	Detail  string
	Fields  map[string]string
	Err     error
	Meta    map[string]any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		b.WriteString(" [")
		b.WriteString(e.fieldSummary())
		b.WriteString("]")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *AppError) fieldSummary() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AppError) Unwrap() error { return e.Err }

// WithMeta attaches metadata to the error.
func (e *AppError) WithMeta(k string, v any) *AppError {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[k] = v
	return e
}

// WithField attaches a field-scoped message.
func (e *AppError) WithField(field, msg string) *AppError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
	return e
}

// New creates a new AppError with code and message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with code and message.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation builds a local validation error from field messages.
func Validation(fields map[string]string) *AppError {
	return &AppError{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// Server builds an error for a backend response with the given status and detail text.
func Server(status int, detail string) *AppError {
	msg := detail
	if msg == "" {
		msg = GenericServerText
	}
	code := CodeRejected
	switch status {
	case 401:
		code = CodeUnauthenticated
	case 404:
		code = CodeNotFound
	case 409:
		code = CodeConflict
	}
	return &AppError{Code: code, Message: msg, Status: status, Detail: detail}
}

// IsCode checks if an error has the provided code (through unwrapping).
func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// As returns the AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// FromServer reports whether err came back from a backend (as opposed to a local or
// network failure).
func FromServer(err error) bool {
	ae, ok := As(err)
	return ok && ae.Status != 0
}

// UserMessage renders err as the text shown in a transient notification.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	ae, ok := As(err)
	if !ok {
		return err.Error()
	}
	switch ae.Code {
	case CodeUnreachable:
		return GenericUnreachableText
	case CodeValidation:
		if len(ae.Fields) > 0 {
			return "Please correct the highlighted fields: " + ae.fieldSummary()
		}
	}
	return ae.Message
}
