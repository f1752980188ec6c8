// Package peakflops structured error types for better error handling
package peakflops

import (
	"errors"
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Invalid argument errors (bad workload or worker count)
	ErrTypeInvalidArg ErrorType = iota
	// Device errors (required vector instruction set absent)
	ErrTypeDevice
	// Timing errors (degenerate elapsed duration)
	ErrTypeTiming
	// Execution errors (a worker failed inside a round)
	ErrTypeExecution
)

// BenchError represents a structured error with context
type BenchError struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *BenchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("peakflops %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("peakflops %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *BenchError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeDevice:
		return "Device"
	case ErrTypeTiming:
		return "Timing"
	case ErrTypeExecution:
		return "Execution"
	default:
		return "Unknown"
	}
}

// IsErrorType reports whether err is (or wraps) a BenchError of type t
func IsErrorType(err error, t ErrorType) bool {
	var be *BenchError
	if errors.As(err, &be) {
		return be.Type == t
	}
	return false
}

// Common error constructors

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &BenchError{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewDeviceError creates an unsupported-hardware error
func NewDeviceError(op string, message string) error {
	return &BenchError{
		Type:    ErrTypeDevice,
		Op:      op,
		Message: message,
	}
}

// NewTimingError creates a degenerate-timing error
func NewTimingError(op string, message string) error {
	return &BenchError{
		Type:    ErrTypeTiming,
		Op:      op,
		Message: message,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &BenchError{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
