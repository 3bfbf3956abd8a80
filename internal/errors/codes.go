// Package errors defines the structured error taxonomy for store mutations
// and ranking operations.
package errors

import (
	"fmt"
)

// ErrorCode identifies a specific failure class.
type ErrorCode string

const (
	// ErrCodeInvalidWeight indicates an edge weight outside [-1, 1].
	ErrCodeInvalidWeight ErrorCode = "INVALID_WEIGHT"
	// ErrCodeInvalidLens indicates a lens with negative seed weights.
	ErrCodeInvalidLens ErrorCode = "INVALID_LENS"
	// ErrCodeInvalidCid indicates a malformed content identifier.
	ErrCodeInvalidCid ErrorCode = "INVALID_CID"
	// ErrCodeFetchError indicates the content backend was unreachable or timed out.
	ErrCodeFetchError ErrorCode = "FETCH_ERROR"
	// ErrCodeParseError indicates content that is not valid structured data.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeLensNotFound indicates the requested lens does not exist.
	ErrCodeLensNotFound ErrorCode = "LENS_NOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Error is a structured error carrying a code, a message and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// InvalidWeight creates an invalid weight error.
func InvalidWeight(weight float64) *Error {
	return &Error{Code: ErrCodeInvalidWeight, Message: fmt.Sprintf("edge weight must be in [-1, 1], got %g", weight)}
}

// InvalidLens creates an invalid lens error.
func InvalidLens(msg string) *Error {
	return &Error{Code: ErrCodeInvalidLens, Message: msg}
}

// InvalidCid creates an invalid content identifier error.
func InvalidCid(cid string) *Error {
	return &Error{Code: ErrCodeInvalidCid, Message: fmt.Sprintf("malformed content identifier: %q", cid)}
}

// FetchError creates a backend fetch error.
func FetchError(msg string, cause error) *Error {
	return &Error{Code: ErrCodeFetchError, Message: msg, Cause: cause}
}

// ParseError creates a content parse error.
func ParseError(msg string, cause error) *Error {
	return &Error{Code: ErrCodeParseError, Message: msg, Cause: cause}
}

// LensNotFound creates a lens not found error.
func LensNotFound(lensID string) *Error {
	return &Error{Code: ErrCodeLensNotFound, Message: fmt.Sprintf("lens not found: %s", lensID)}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: msg}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an *Error.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return defaultCode
}
