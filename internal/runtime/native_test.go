// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("skipping: test uses POSIX shell syntax")
	}
}

func TestNativeRuntime_Execute(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	rt := NewNativeRuntime()
	if !rt.Available() {
		t.Skip("skipping: no sh on PATH")
	}

	ctx, stdout, _ := newTestContext(t, `echo "$TAGGER_NAME@$TAGGER_VERSION from $TAGGER_URL"`)
	res := rt.Execute(ctx)
	if !res.Success() {
		t.Fatalf("Execute() = %+v, want success", res)
	}

	want := "tool@v1.2.0 from https://example.com/tool.git"
	if got := strings.TrimSpace(stdout.String()); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestNativeRuntime_ExitCode(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	rt := NewNativeRuntime()
	if !rt.Available() {
		t.Skip("skipping: no sh on PATH")
	}

	ctx, _, stderr := newTestContext(t, "echo failing >&2; exit 7")
	res := rt.Execute(ctx)
	if res.Error != nil {
		t.Fatalf("Execute() error = %v, want none", res.Error)
	}
	if res.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", res.ExitCode)
	}
	if got := strings.TrimSpace(stderr.String()); got != "failing" {
		t.Errorf("stderr = %q, want %q", got, "failing")
	}
}

func TestNativeRuntime_WorkDir(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	rt := NewNativeRuntime()
	if !rt.Available() {
		t.Skip("skipping: no sh on PATH")
	}

	ctx, stdout, _ := newTestContext(t, "pwd -P")
	want, err := filepath.EvalSymlinks(ctx.WorkDir)
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	res := rt.Execute(ctx)
	if !res.Success() {
		t.Fatalf("Execute() = %+v, want success", res)
	}
	if got := strings.TrimSpace(stdout.String()); got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestNativeRuntime_NoShell(t *testing.T) {
	t.Parallel()

	rt := NewNativeRuntime()
	rt.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	if rt.Available() {
		t.Error("Available() = true without a shell")
	}
	ctx, _, _ := newTestContext(t, "true")
	res := rt.Execute(ctx)
	if !errors.Is(res.Error, ErrShellNotFound) {
		t.Errorf("Execute() error = %v, want ErrShellNotFound", res.Error)
	}
}

func TestNativeRuntime_WithShell(t *testing.T) {
	t.Parallel()

	rt := NewNativeRuntime(WithShell("/opt/bin/zsh"))
	rt.lookPath = func(string) (string, error) { return "", errors.New("not consulted") }

	shell, err := rt.getShell()
	if err != nil {
		t.Fatalf("getShell() error = %v", err)
	}
	if shell != "/opt/bin/zsh" {
		t.Errorf("getShell() = %q, want %q", shell, "/opt/bin/zsh")
	}
	if args := rt.getShellArgs("ls"); len(args) != 2 || args[0] != "-c" {
		t.Errorf("getShellArgs() = %v, want [-c ls]", args)
	}
}

func TestNativeRuntime_Validate(t *testing.T) {
	t.Parallel()

	ctx, _, _ := newTestContext(t, "")
	if err := NewNativeRuntime().Validate(ctx); !errors.Is(err, ErrNoCommand) {
		t.Errorf("Validate() error = %v, want ErrNoCommand", err)
	}
}

func TestNativeRuntime_KilledBySignal(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	rt := NewNativeRuntime()
	if !rt.Available() {
		t.Skip("skipping: no sh on PATH")
	}

	ctx, _, _ := newTestContext(t, "kill -9 $$")
	res := rt.Execute(ctx)
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}

	var terminated *CommandTerminatedError
	if !errors.As(res.Error, &terminated) {
		t.Fatalf("Execute() error = %v, want *CommandTerminatedError", res.Error)
	}
	if terminated.Package != "tool" || !strings.Contains(terminated.Reason, "killed") {
		t.Errorf("CommandTerminatedError = %+v, want package tool killed", terminated)
	}
	if err := res.Err("tool"); !errors.Is(err, ErrCommandTerminated) {
		t.Errorf("Err() = %v, want ErrCommandTerminated", err)
	}
}
