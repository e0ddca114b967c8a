// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes commands using the embedded mvdan/sh interpreter.
// External programs are still resolved from PATH; only the shell is embedded.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name
func (r *VirtualRuntime) Name() string { return string(RuntimeTypeVirtual) }

// Available always returns true since the interpreter is embedded
func (r *VirtualRuntime) Available() bool { return true }

// Validate checks that the command parses as a shell program.
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Command == "" {
		return ErrNoCommand
	}
	if _, err := r.parse(ctx.Command); err != nil {
		return err
	}
	return nil
}

// Execute runs the command in the embedded interpreter.
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	prog, err := r.parse(ctx.Command)
	if err != nil {
		return NewErrorResult(1, err)
	}

	workDir := ctx.WorkDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return NewErrorResult(1, fmt.Errorf("failed to get working directory: %w", err))
		}
	}

	env := append(FilterTaggerEnvVars(os.Environ()), EnvToSlice(ctx.ExtraEnv)...)

	runner, err := interp.New(
		interp.Dir(workDir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(ctx.Stdin, ctx.Stdout, ctx.Stderr),
		interp.ExecHandlers(r.execHandler),
	)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
	}

	if err := runner.Run(ctx.Context, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(ExitCode(exitStatus))
		}
		return NewErrorResult(1, fmt.Errorf("command execution failed: %w", err))
	}

	return NewSuccessResult()
}

func (r *VirtualRuntime) parse(command string) (*syntax.File, error) {
	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}
	return prog, nil
}

// execHandler logs external program invocations before handing them to the
// default handler.
func (r *VirtualRuntime) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		slog.Debug("virtual runtime exec", "program", args[0], "args", len(args)-1)
		return next(ctx, args)
	}
}
