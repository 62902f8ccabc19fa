package horizon

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes horizon errors.
type ErrorCode string

// ErrCodeInvalidArgument marks a precondition violation: a non-positive
// index, a modulus <= 1, or a base sharing a factor with the modulus.
const ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

// Error is returned when an input has no meaningful result.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string

	// Details carries the offending values, formatted for display.
	Details map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
}

func newInvalidArgument(op, message string, details map[string]string) *Error {
	return &Error{
		Code:    ErrCodeInvalidArgument,
		Op:      op,
		Message: message,
		Details: details,
	}
}

// IsInvalidArgument returns true if err is or wraps an invalid argument error.
func IsInvalidArgument(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeInvalidArgument
	}
	return false
}
