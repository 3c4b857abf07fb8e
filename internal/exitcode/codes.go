// Package exitcode defines structured exit codes for sendtoftrack.
//
// A completed deploy run always exits 0: the outcome of terminating,
// copying and relaunching is reported on the console, not through the exit
// status. Non-zero codes are reserved for conditions that stop the run
// before it starts.
//
// # Usage
//
//	return exitcode.Newf(exitcode.ErrUsage, "unknown overwrite policy %q", v)
//	code := exitcode.Code(err) // ErrGeneral for non-coded errors
package exitcode

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	// Success indicates the run completed (whatever its console outcome).
	Success = 0

	ErrGeneral  = 1 // General/unknown error
	ErrUsage    = 2 // Invalid flags or config file
	ErrInternal = 3 // Internal error (bug)

	ErrBusy = 52 // Another run holds the lock
)

// Error wraps an error with a specific exit code.
type Error struct {
	Code    int
	Message string
	Cause   error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new coded error.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new coded error with printf-style formatting.
func Newf(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Code extracts the exit code from an error.
// Returns ErrGeneral (1) if the error doesn't have a code.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrGeneral
}

// Is checks if an error has a specific exit code.
func Is(err error, code int) bool {
	return Code(err) == code
}

// Usage returns an error for bad flags or configuration.
func Usage(cause error) *Error {
	return Wrap(ErrUsage, "invalid configuration", cause)
}

// Busy returns an error when another run holds the lock.
func Busy(lockPath string) *Error {
	return Newf(ErrBusy, "another sendtoftrack run is in progress (lock held: %s)", lockPath)
}
