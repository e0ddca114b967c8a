// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/addreality/tagger/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"exit error", &ExitError{Code: 42}, 42},
		{"wrapped exit error", &issue.ActionableError{Operation: "x", Cause: &ExitError{Code: 3}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	t.Run("reported exit error is silent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderError(&buf, &ExitError{Code: 1}, true)
		if buf.Len() != 0 {
			t.Errorf("renderError() wrote %q, want nothing", buf.String())
		}
	})

	t.Run("actionable error shows suggestions", func(t *testing.T) {
		t.Parallel()

		err := issue.NewErrorContext().
			WithOperation("list tags").
			WithResource("tool").
			WithSuggestion("Check the repo URL").
			Wrap(errors.New("connection refused")).
			BuildError()

		var buf bytes.Buffer
		renderError(&buf, &ExitError{Code: 1, Err: err}, false)
		out := buf.String()
		for _, want := range []string{"failed to list tags: tool: connection refused", "Check the repo URL"} {
			if !strings.Contains(out, want) {
				t.Errorf("renderError() output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Error chain:") {
			t.Errorf("non-verbose output should not include the error chain:\n%s", out)
		}
	})

	t.Run("verbose includes chain", func(t *testing.T) {
		t.Parallel()

		err := issue.NewErrorContext().
			WithOperation("run command").
			Wrap(errors.New("exit 2")).
			BuildError()

		var buf bytes.Buffer
		renderError(&buf, err, true)
		if !strings.Contains(buf.String(), "Error chain:") {
			t.Errorf("verbose output should include the error chain:\n%s", buf.String())
		}
	})
}
