package octonion

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes octonion errors.
type ErrorCode string

const (
	// ErrCodeDimensionMismatch indicates a vector whose length is not 8.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"

	// ErrCodeInvalidArgument indicates a malformed argument such as a basis
	// index outside 0..7 or an unparsable component.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Error is a precondition violation reported by this package.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDimensionMismatch reports a vector of length n where 8 was required.
func NewDimensionMismatch(n int) *Error {
	return &Error{
		Code:    ErrCodeDimensionMismatch,
		Op:      "octonion",
		Message: fmt.Sprintf("expected %d components, got %d", Dim, n),
	}
}

// NewInvalidArgument reports a malformed argument to op.
func NewInvalidArgument(op, message string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Op: op, Message: message}
}

// IsDimensionMismatch returns true if err is or wraps a dimension mismatch.
func IsDimensionMismatch(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeDimensionMismatch
	}
	return false
}

// IsInvalidArgument returns true if err is or wraps an invalid argument error.
func IsInvalidArgument(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeInvalidArgument
	}
	return false
}
