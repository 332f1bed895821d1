package tools

import (
	"errors"
	"fmt"
)

// Code classifies a tool failure. Codes are stable identifiers a caller can
// branch on; the message carries the human-readable detail.
type Code string

const (
	CodeInvalidArgument       Code = "InvalidArgument"
	CodeDivisionByZero        Code = "DivisionByZero"
	CodeInvalidDomain         Code = "InvalidDomain"
	CodeUnsupportedConversion Code = "UnsupportedConversion"
	CodeNotFound              Code = "NotFound"
	CodeNotAFile              Code = "NotAFile"
	CodeAccessDenied          Code = "AccessDenied"
	CodePathTraversal         Code = "PathTraversal"
	CodeExtensionNotAllowed   Code = "ExtensionNotAllowed"
	CodeResponseTooLarge      Code = "ResponseTooLarge"
	CodeNetworkError          Code = "NetworkError"
	CodeMalformedInput        Code = "MalformedInput"
	CodeInvalidJSON           Code = "InvalidJSON"
	CodePathNotFound          Code = "PathNotFound"
	CodeIndexOutOfRange       Code = "IndexOutOfRange"
	CodeInvalidPathSegment    Code = "InvalidPathSegment"
	CodeUnknownTool           Code = "UnknownTool"
	CodeUnsupportedResource   Code = "UnsupportedResource"
)

// Error is the failure type returned by tool handlers. Every handler-level
// failure is converted into the call envelope at the dispatch boundary;
// nothing propagates to the caller as an unhandled fault.
type Error struct {
	Code    Code
	Message string
}

var _ error = &Error{}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds a coded tool error with a formatted message.
func Errorf(code Code, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the failure code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
