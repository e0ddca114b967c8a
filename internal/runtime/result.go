// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandFailed is the sentinel error wrapped by CommandFailedError.
	ErrCommandFailed = errors.New("command failed")
	// ErrShellNotFound is the sentinel error wrapped by ShellNotFoundError.
	ErrShellNotFound = errors.New("shell not found")
	// ErrCommandTerminated is the sentinel error wrapped by CommandTerminatedError.
	ErrCommandTerminated = errors.New("command terminated")
)

type (
	// CommandFailedError reports a command that ran and exited non-zero.
	CommandFailedError struct {
		Package  string
		ExitCode ExitCode
	}

	// CommandTerminatedError reports a command ended by a signal before it
	// could exit on its own. Reason is the process state, e.g. "signal: killed".
	CommandTerminatedError struct {
		Package string
		Reason  string
	}

	// ShellNotFoundError is returned when the native runtime finds no shell.
	ShellNotFoundError struct {
		Runtime string
		Tried   []string
	}
)

// Error implements the error interface.
func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("command for package %s exited with code %d", e.Package, e.ExitCode)
}

// Unwrap returns ErrCommandFailed so callers can use errors.Is for programmatic detection.
func (e *CommandFailedError) Unwrap() error { return ErrCommandFailed }

// Error implements the error interface.
func (e *CommandTerminatedError) Error() string {
	return fmt.Sprintf("command for package %s was terminated (%s)", e.Package, e.Reason)
}

// Unwrap returns ErrCommandTerminated so callers can use errors.Is for programmatic detection.
func (e *CommandTerminatedError) Unwrap() error { return ErrCommandTerminated }

// Error implements the error interface.
func (e *ShellNotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("runtime '%s' is not available on this system", e.Runtime)
	}
	return fmt.Sprintf("runtime '%s' found no shell (tried %v)", e.Runtime, e.Tried)
}

// Unwrap returns ErrShellNotFound so callers can use errors.Is for programmatic detection.
func (e *ShellNotFoundError) Unwrap() error { return ErrShellNotFound }

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Err converts the result to an error for the package it ran for: nil on
// success, the infrastructure error if any, else *CommandFailedError.
func (r *Result) Err(pkg string) error {
	switch {
	case r.Error != nil:
		return r.Error
	case !r.ExitCode.IsSuccess():
		return &CommandFailedError{Package: pkg, ExitCode: r.ExitCode}
	default:
		return nil
	}
}
