// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the tagger command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/addreality/tagger/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the parsed flags of one invocation.
type rootOptions struct {
	cfgFile    string
	showLatest bool
	listAll    bool
	exec       bool
	timeout    time.Duration
	runtime    string
	dryRun     bool
	sort       bool
	verbose    bool
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App, opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tagger [flags] PACKAGES...",
		Short: "Resolve package versions from semver git tags",
		Long: TitleStyle.Render("tagger") + SubtitleStyle.Render(" - resolve package versions from semver git tags") + `

tagger looks up each package in the configured repos, lists the tags of its
git remote without cloning, and picks the latest tag that is a valid semantic
version. In exec mode the configured command runs with {NAME}, {URL} and
{VERSION} filled in.

The config is read from --cfg, ./.tagger.cfg.json or ~/.tagger.cfg.json.`,
		Example: `  tagger ui                        Run the command with the latest ui version
  tagger --show-latest hlp         Print the latest valid tag of hlp
  tagger --list-all --sort hlp     Print every valid tag of hlp, newest first
  tagger -e -c ./tagger.json hlp@2.1.3`,
		Args: cobra.MinimumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(app.stderr, opts.verbose))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackages(cmd, app, opts, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.cfgFile, "cfg", "c", "", "path to config file (default ./.tagger.cfg.json, then ~/.tagger.cfg.json)")
	pf.BoolVar(&opts.verbose, "verbose", false, "enable verbose output")

	f := rootCmd.Flags()
	f.BoolVarP(&opts.showLatest, "show-latest", "l", false, "print the latest valid tag")
	f.BoolVarP(&opts.listAll, "list-all", "a", false, "print all tags that are valid semantic versions")
	f.BoolVarP(&opts.exec, "exec", "e", false, "run the configured command with the given or latest version (default action)")
	f.DurationVar(&opts.timeout, "timeout", 0, "bound for remote operations per package, 0 disables (default from config, 60s)")
	f.StringVar(&opts.runtime, "runtime", "", "command runtime: native or virtual (default from config, native)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the rendered command instead of running it")
	f.BoolVar(&opts.sort, "sort", false, "sort --list-all output newest first")
	rootCmd.MarkFlagsMutuallyExclusive("show-latest", "list-all", "exec")

	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs tagger with the process arguments and exits with its status.
// It is the only place the process exits.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], NewApp(Dependencies{})))
}

// run executes one invocation and returns its exit code.
func run(ctx context.Context, args []string, app *App) int {
	opts := &rootOptions{}
	rootCmd := newRootCommand(app, opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	rootCmd.SetIn(app.stdin)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, opts.verbose)
		}),
	)
	return exitCode(err)
}

// exitCode maps a command error to the process status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// renderError prints err for the user. Errors already reported (an ExitError
// without a cause) print nothing. Verbose mode appends the cause chain and the
// linked issue guidance.
func renderError(w io.Writer, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	if !verbose {
		return
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	renderIssue(w, ae.Issue())
}

// renderIssue prints the catalog guidance for is, if any.
func renderIssue(w io.Writer, is *issue.Issue) {
	if is == nil {
		return
	}
	rendered, err := is.Render("auto")
	if err != nil {
		slog.Debug("failed to render issue", "id", is.Id(), "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
