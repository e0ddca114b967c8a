// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/addreality/tagger/internal/config"
	"github.com/addreality/tagger/internal/testutil"
)

type testRun struct {
	code   int
	stdout string
	stderr string
}

// writeConfig writes a tagger config with the given repos and command and
// returns its path.
func writeConfig(t *testing.T, command string, repos ...config.RepoEntry) string {
	t.Helper()

	data, err := json.Marshal(map[string]any{
		"repos":   repos,
		"command": command,
	})
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	testutil.MustWriteFile(t, path, data)
	return path
}

// runTagger runs the command tree in-process with captured output.
func runTagger(t *testing.T, args ...string) testRun {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Stdout: &stdout,
		Stderr: &stderr,
		Stdin:  strings.NewReader(""),
	})
	code := run(t.Context(), args, app)
	return testRun{
		code:   code,
		stdout: ansi.Strip(stdout.String()),
		stderr: ansi.Strip(stderr.String()),
	}
}
