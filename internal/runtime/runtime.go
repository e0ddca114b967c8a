// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/addreality/tagger/pkg/pkgref"
)

// Runtime type constants for the supported execution environments.
const (
	RuntimeTypeNative  RuntimeType = "native"
	RuntimeTypeVirtual RuntimeType = "virtual"
)

// Environment variables describing the package a command runs for.
const (
	EnvName    = "TAGGER_NAME"
	EnvURL     = "TAGGER_URL"
	EnvVersion = "TAGGER_VERSION"
)

type (
	// ExecutionContext contains all information needed to run one rendered command.
	ExecutionContext struct {
		// Context is the Go context for cancellation
		Context context.Context
		// Ref is the package the command runs for; its version is always set
		Ref pkgref.Ref
		// Command is the rendered command line
		Command string
		// Stdout is where to write standard output
		Stdout io.Writer
		// Stderr is where to write standard error
		Stderr io.Writer
		// Stdin is where to read standard input
		Stdin io.Reader
		// ExtraEnv contains additional environment variables
		ExtraEnv map[string]string
		// WorkDir is the directory the command runs in; empty means the
		// process working directory
		WorkDir string
	}

	// Result contains the result of a command execution
	Result struct {
		// ExitCode is the exit code of the command
		ExitCode ExitCode
		// Error is set when the command could not be run at all
		Error error
	}

	// Runtime defines the interface for command execution
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Execute runs the command in this runtime
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runtime is available on the current system
		Available() bool
		// Validate checks if the command can be executed with this runtime
		Validate(ctx *ExecutionContext) error
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// Registry holds all available runtimes
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// NewExecutionContext creates an execution context for ref with the process's
// standard streams, its working directory and the TAGGER_* package variables.
func NewExecutionContext(ctx context.Context, ref pkgref.Ref, command string) *ExecutionContext {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = ""
	}
	return &ExecutionContext{
		Context: ctx,
		Ref:     ref,
		Command: command,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
		ExtraEnv: map[string]string{
			EnvName:    ref.Name,
			EnvURL:     ref.URL,
			EnvVersion: ref.Version,
		},
		WorkDir: workDir,
	}
}

// Success returns true if the command executed successfully
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// NewRegistry creates a new runtime registry
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// NewDefaultRegistry returns a registry with the native and virtual runtimes.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(RuntimeTypeNative, NewNativeRuntime())
	reg.Register(RuntimeTypeVirtual, NewVirtualRuntime())
	return reg
}

// Register adds a runtime to the registry
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("runtime '%s' not registered", typ)
	}
	return rt, nil
}

// Available returns all available runtimes, sorted by name
func (r *Registry) Available() []RuntimeType {
	var types []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			types = append(types, typ)
		}
	}
	slices.Sort(types)
	return types
}

// Execute runs ctx's command with the runtime registered under typ.
func (r *Registry) Execute(typ RuntimeType, ctx *ExecutionContext) *Result {
	rt, err := r.Get(typ)
	if err != nil {
		return NewErrorResult(1, err)
	}

	if !rt.Available() {
		return NewErrorResult(1, &ShellNotFoundError{Runtime: rt.Name()})
	}

	if err := rt.Validate(ctx); err != nil {
		return NewErrorResult(1, err)
	}

	return rt.Execute(ctx)
}

// EnvToSlice converts a map of environment variables to a sorted KEY=VALUE slice
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// FilterTaggerEnvVars drops inherited TAGGER_NAME, TAGGER_URL and TAGGER_VERSION
// so a command started from another tagger command sees only its own package.
func FilterTaggerEnvVars(environ []string) []string {
	result := make([]string, 0, len(environ))
	for _, e := range environ {
		name, _, ok := strings.Cut(e, "=")
		if ok && (name == EnvName || name == EnvURL || name == EnvVersion) {
			continue
		}
		result = append(result, e)
	}
	return result
}
