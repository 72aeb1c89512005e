// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure for callers and for the wire
// values are sent to clients, append new codes at the end
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeUnavailable is for a dependency that is up but not serving yet
	ErrorCodeUnavailable

	// ErrorCodeConflict is for work that collides with work already underway
	ErrorCodeConflict

	// ErrorCodeInvalidArgument is for bad query parameters and command arguments
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for request bodies or settings that fail validation
	ErrorCodeValidation

	// ErrorCodeJSON is for bodies that are not the JSON we expect
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing rows
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey is for unique constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB is for every other database failure
	ErrorCodeDB

	// ErrorCodeTransport is for upstream calls that could not complete
	ErrorCodeTransport

	// ErrorCodeMalformedResponse is for upstream replies that do not parse into the expected shape
	ErrorCodeMalformedResponse

	// ErrorCodeEmptyResponse is for upstream replies that carry nothing usable
	ErrorCodeEmptyResponse
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeUnavailable:       http.StatusServiceUnavailable,
	ErrorCodeConflict:          http.StatusConflict,
	ErrorCodeDuplicateKey:      http.StatusConflict,
	ErrorCodeInvalidArgument:   http.StatusUnprocessableEntity,
	ErrorCodeValidation:        http.StatusBadRequest,
	ErrorCodeJSON:              http.StatusBadRequest,
	ErrorCodeNotFound:          http.StatusNotFound,
	ErrorCodeTransport:         http.StatusBadGateway,
	ErrorCodeMalformedResponse: http.StatusBadGateway,
	ErrorCodeEmptyResponse:     http.StatusBadGateway,
}

// HTTPStatusCode turns an ErrorCode into an http status, unmapped codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrNotFound is the sentinel repos return for a missing row
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code for machines and a message for people
// field names the offending input, orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the JSON form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap exposes the wrapped cause
func (e *Error) Unwrap() error { return e.orig }

// Code returns the classification
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input name, if any
func (e *Error) Field() string { return e.field }

// ToWire drops the cause, only msg reaches clients
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom converts any error into a Wire payload
// foreign errors are Unknown and carry their full text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf returns the code of the outermost *Error in the chain, Unknown otherwise
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField returns a copy of err naming field, foreign errors come back unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// New returns an *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns an *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap classifies orig under code
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Conflictf returns a conflict error
func Conflictf(format string, a ...any) error { return Newf(ErrorCodeConflict, format, a...) }

// Transportf returns an upstream transport error
func Transportf(format string, a ...any) error { return Newf(ErrorCodeTransport, format, a...) }

// Malformedf returns an upstream malformed response error
func Malformedf(format string, a ...any) error { return Newf(ErrorCodeMalformedResponse, format, a...) }

// EmptyResponsef returns an upstream empty response error
func EmptyResponsef(format string, a ...any) error { return Newf(ErrorCodeEmptyResponse, format, a...) }

// Upstream reports whether err came from a failed call to an external service
func Upstream(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeTransport, ErrorCodeMalformedResponse, ErrorCodeEmptyResponse:
		return true
	}
	return false
}
