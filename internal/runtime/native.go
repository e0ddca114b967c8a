// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
)

// NativeRuntime executes commands through the host's shell.
type NativeRuntime struct {
	// shell overrides the default shell
	shell string
	// lookPath finds executables; tests replace it
	lookPath func(string) (string, error)
}

// NativeRuntimeOption configures a NativeRuntime.
type NativeRuntimeOption func(*NativeRuntime)

// WithShell sets a custom shell for the native runtime
func WithShell(shell string) NativeRuntimeOption {
	return func(r *NativeRuntime) {
		r.shell = shell
	}
}

// NewNativeRuntime creates a new native runtime
func NewNativeRuntime(opts ...NativeRuntimeOption) *NativeRuntime {
	r := &NativeRuntime{lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the runtime name
func (r *NativeRuntime) Name() string { return string(RuntimeTypeNative) }

// Available returns whether a shell can be found on the host.
func (r *NativeRuntime) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Validate checks that there is a command to run.
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Command == "" {
		return ErrNoCommand
	}
	return nil
}

// Execute runs the command with the host shell, streaming its output.
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	shell, err := r.getShell()
	if err != nil {
		return NewErrorResult(1, err)
	}

	cmd := exec.CommandContext(ctx.Context, shell, r.getShellArgs(ctx.Command)...) //nolint:gosec // command comes from the user's config
	cmd.Dir = ctx.WorkDir
	cmd.Env = append(FilterTaggerEnvVars(os.Environ()), EnvToSlice(ctx.ExtraEnv)...)
	cmd.Stdin = ctx.Stdin
	cmd.Stdout = ctx.Stdout
	cmd.Stderr = ctx.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if ctxErr := ctx.Context.Err(); ctxErr != nil {
				return NewErrorResult(signalExitCode(exitErr), fmt.Errorf("command interrupted: %w", ctxErr))
			}
			// ExitCode() is -1 when a signal ended the process.
			if exitErr.ExitCode() < 0 {
				return NewErrorResult(1, &CommandTerminatedError{Package: ctx.Ref.Name, Reason: exitErr.Error()})
			}
			return NewExitCodeResult(ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute command: %w", err))
	}

	return NewSuccessResult()
}

// signalExitCode is the process exit code, or 1 when a signal ended it.
func signalExitCode(exitErr *exec.ExitError) ExitCode {
	if code := exitErr.ExitCode(); code >= 0 {
		return ExitCode(code)
	}
	return 1
}

// getShell returns the shell to use for execution
func (r *NativeRuntime) getShell() (string, error) {
	if r.shell != "" {
		return r.shell, nil
	}

	candidates := []string{"sh"}
	if goruntime.GOOS == "windows" {
		candidates = []string{"cmd"}
	}

	for _, c := range candidates {
		if path, err := r.lookPath(c); err == nil {
			return path, nil
		}
	}
	return "", &ShellNotFoundError{Runtime: r.Name(), Tried: candidates}
}

// getShellArgs returns the arguments that make shell run command
func (r *NativeRuntime) getShellArgs(command string) []string {
	if goruntime.GOOS == "windows" && r.shell == "" {
		return []string{"/C", command}
	}
	return []string{"-c", command}
}
