package models

import (
	"errors"
	"fmt"
)

// Domain errors. Callers wrap them with context and handlers classify them with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrSessionRevoked = errors.New("session revoked")
	ErrNoChartData    = errors.New("no transactions to chart")
)

// ValidationError carries a user facing message and matches ErrValidation
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError from a format string
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
