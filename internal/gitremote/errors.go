// SPDX-License-Identifier: MPL-2.0

package gitremote

import (
	"errors"
	"fmt"
)

const (
	// StageRegister is the remote lookup/registration step.
	StageRegister ConnectStage = "register"
	// StageAuth is credential resolution and loading.
	StageAuth ConnectStage = "auth"
	// StageList is the reference advertisement exchange.
	StageList ConnectStage = "list"
)

var (
	// ErrScratchRepo is the sentinel error wrapped by ScratchRepoError.
	ErrScratchRepo = errors.New("cannot prepare scratch repository")
	// ErrRemoteConnect is the sentinel error wrapped by RemoteConnectError.
	ErrRemoteConnect = errors.New("cannot connect to remote")
)

type (
	// ConnectStage names the step of a connection attempt that failed.
	ConnectStage string

	// ScratchRepoError is returned when the ephemeral repository cannot be
	// created or opened.
	ScratchRepoError struct {
		Package string
		Err     error
	}

	// RemoteConnectError is returned when origin cannot be registered, credentials
	// cannot be loaded, or the remote refuses the listing. The message always
	// carries the underlying transport diagnostic.
	RemoteConnectError struct {
		URL   string
		Stage ConnectStage
		Err   error
	}
)

// Error implements the error interface.
func (e *ScratchRepoError) Error() string {
	return fmt.Sprintf("cannot create temp repository for %s: %v", e.Package, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *ScratchRepoError) Unwrap() []error { return []error{ErrScratchRepo, e.Err} }

// Error implements the error interface.
func (e *RemoteConnectError) Error() string {
	switch e.Stage {
	case StageRegister:
		return fmt.Sprintf("cannot find or create remote origin for %s: %v", e.URL, e.Err)
	case StageAuth:
		return fmt.Sprintf("cannot load credentials for %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("cannot list references of %s: %v", e.URL, e.Err)
	}
}

// Unwrap returns both the sentinel and the transport error.
func (e *RemoteConnectError) Unwrap() []error { return []error{ErrRemoteConnect, e.Err} }
