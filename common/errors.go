// Package common provides shared constants, types, and utilities
// used across the launcher application.
package common

import "errors"

// Sentinel errors for launcher operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Validation errors.
	ErrInvalidLaunchMode = errors.New("invalid launch mode")
	ErrInvalidDimensions = errors.New("invalid window dimensions")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")

	// Host windowing errors.
	ErrWindowCreate  = errors.New("failed to create launcher window")
	ErrWindowDestroy = errors.New("failed to destroy launcher window")
	ErrMinimize      = errors.New("failed to minimize window")
	ErrRootWindow    = errors.New("root window unavailable")
	ErrHostPanic     = errors.New("host call panicked")

	// Command surface errors.
	ErrUnknownCommand     = errors.New("unknown command")
	ErrUnsupportedVersion = errors.New("unsupported protocol version")
	ErrBadArguments       = errors.New("malformed command arguments")

	// History errors.
	ErrHistoryUnavailable = errors.New("session history unavailable")

	// Network errors.
	ErrServerUnreachable = errors.New("launcher server unreachable")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
