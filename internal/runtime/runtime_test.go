// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"errors"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/addreality/tagger/pkg/pkgref"
)

type stubRuntime struct {
	available bool
	validErr  error
	executed  bool
}

func (s *stubRuntime) Name() string { return "stub" }

func (s *stubRuntime) Available() bool { return s.available }

func (s *stubRuntime) Validate(*ExecutionContext) error { return s.validErr }

func (s *stubRuntime) Execute(*ExecutionContext) *Result {
	s.executed = true
	return NewSuccessResult()
}

func newTestContext(t *testing.T, command string) (*ExecutionContext, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	ref := pkgref.Ref{Name: "tool", URL: "https://example.com/tool.git", Version: "v1.2.0"}
	ctx := NewExecutionContext(t.Context(), ref, command)
	var stdout, stderr bytes.Buffer
	ctx.Stdout = &stdout
	ctx.Stderr = &stderr
	ctx.Stdin = strings.NewReader("")
	ctx.WorkDir = t.TempDir()
	return ctx, &stdout, &stderr
}

func TestNewExecutionContext_PackageEnv(t *testing.T) {
	t.Parallel()

	ctx := NewExecutionContext(t.Context(), pkgref.Ref{Name: "n", URL: "u", Version: "1.0.0"}, "true")
	want := []string{"TAGGER_NAME=n", "TAGGER_URL=u", "TAGGER_VERSION=1.0.0"}
	if got := EnvToSlice(ctx.ExtraEnv); !slices.Equal(got, want) {
		t.Errorf("EnvToSlice(ExtraEnv) = %v, want %v", got, want)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if ctx.WorkDir != wd {
		t.Errorf("WorkDir = %q, want %q", ctx.WorkDir, wd)
	}
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	stub := &stubRuntime{available: true}
	reg.Register(RuntimeTypeNative, stub)

	rt, err := reg.Get(RuntimeTypeNative)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rt != stub {
		t.Error("Get() returned a different runtime")
	}

	if _, err := reg.Get(RuntimeTypeVirtual); err == nil {
		t.Error("Get() for unregistered runtime should fail")
	}
}

func TestRegistry_Execute(t *testing.T) {
	t.Parallel()

	t.Run("runs available runtime", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		stub := &stubRuntime{available: true}
		reg.Register(RuntimeTypeNative, stub)

		ctx, _, _ := newTestContext(t, "true")
		if res := reg.Execute(RuntimeTypeNative, ctx); !res.Success() {
			t.Fatalf("Execute() = %+v, want success", res)
		}
		if !stub.executed {
			t.Error("runtime was not executed")
		}
	})

	t.Run("unavailable runtime", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		stub := &stubRuntime{}
		reg.Register(RuntimeTypeNative, stub)

		ctx, _, _ := newTestContext(t, "true")
		res := reg.Execute(RuntimeTypeNative, ctx)
		if !errors.Is(res.Error, ErrShellNotFound) {
			t.Errorf("Execute() error = %v, want ErrShellNotFound", res.Error)
		}
		if stub.executed {
			t.Error("unavailable runtime was executed")
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		stub := &stubRuntime{available: true, validErr: ErrNoCommand}
		reg.Register(RuntimeTypeNative, stub)

		ctx, _, _ := newTestContext(t, "")
		res := reg.Execute(RuntimeTypeNative, ctx)
		if !errors.Is(res.Error, ErrNoCommand) {
			t.Errorf("Execute() error = %v, want ErrNoCommand", res.Error)
		}
		if stub.executed {
			t.Error("invalid command was executed")
		}
	})
}

func TestNewDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg := NewDefaultRegistry()
	for _, typ := range []RuntimeType{RuntimeTypeNative, RuntimeTypeVirtual} {
		rt, err := reg.Get(typ)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", typ, err)
		}
		if rt.Name() != string(typ) {
			t.Errorf("Get(%s).Name() = %q", typ, rt.Name())
		}
	}
	if !slices.Contains(reg.Available(), RuntimeTypeVirtual) {
		t.Errorf("Available() = %v, want virtual included", reg.Available())
	}
}

func TestFilterTaggerEnvVars(t *testing.T) {
	t.Parallel()

	in := []string{"PATH=/bin", "TAGGER_NAME=old", "TAGGER_URL=old", "TAGGER_VERSION=0.1.0", "TAGGER_TIMEOUT=5s"}
	want := []string{"PATH=/bin", "TAGGER_TIMEOUT=5s"}
	if got := FilterTaggerEnvVars(in); !slices.Equal(got, want) {
		t.Errorf("FilterTaggerEnvVars() = %v, want %v", got, want)
	}
}
