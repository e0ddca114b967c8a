// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/addreality/tagger/internal/config"
	"github.com/addreality/tagger/internal/issue"
	"github.com/addreality/tagger/internal/runtime"
	"github.com/addreality/tagger/internal/tags"
	"github.com/addreality/tagger/pkg/pkgref"
	"github.com/addreality/tagger/pkg/tagver"
)

type (
	// runMode is the action taken for every package of an invocation.
	runMode int

	// runSettings are the effective settings after merging flags over config.
	runSettings struct {
		mode    runMode
		timeout time.Duration
		runtime runtime.RuntimeType
		dryRun  bool
		sort    bool
	}
)

const (
	modeExec runMode = iota
	modeShowLatest
	modeListAll
)

// runPackages is the root command: it binds the package arguments against the
// config and handles each package in argument order.
func runPackages(cmd *cobra.Command, app *App, opts *rootOptions, args []string) error {
	ctx := cmd.Context()

	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.cfgFile})
	if err != nil {
		return err
	}

	settings, err := newRunSettings(cmd, opts, cfg)
	if err != nil {
		return err
	}

	refs, err := pkgref.FromArgs(args, cfg.PackageRepos(), func(err error) {
		printWarning(app.stderr, err.Error())
	})
	if err != nil {
		return &ExitError{Code: 1, Err: noValidPackageError(err, cfg)}
	}

	if settings.mode == modeExec && cfg.Command == "" {
		return &ExitError{Code: 1, Err: commandMissingError(cfg)}
	}

	source := app.Resolvers(cfg)
	var missing int
	for _, ref := range refs {
		err := runPackage(ctx, app, source, cfg, settings, ref)
		var noTags *tags.NoValidTagsError
		if errors.As(err, &noTags) {
			printWarning(app.stderr, noTags.Error())
			if opts.verbose {
				renderIssue(app.stderr, issue.Get(issue.NoValidTagsId))
			}
			missing++
			continue
		}
		if err != nil {
			return err
		}
	}

	if missing > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// newRunSettings merges flags over the loaded configuration.
func newRunSettings(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) (runSettings, error) {
	s := runSettings{
		timeout: cfg.Timeout,
		runtime: runtime.RuntimeType(cfg.Runtime),
		dryRun:  opts.dryRun,
		sort:    opts.sort,
	}

	switch {
	case opts.showLatest:
		s.mode = modeShowLatest
	case opts.listAll:
		s.mode = modeListAll
	default:
		s.mode = modeExec
	}

	if cmd.Flags().Changed("timeout") {
		if opts.timeout < 0 {
			return s, fmt.Errorf("--timeout %s must not be negative", opts.timeout)
		}
		s.timeout = opts.timeout
	}

	if opts.runtime != "" {
		mode := config.RuntimeMode(opts.runtime)
		if valid, errs := mode.IsValid(); !valid {
			return s, issue.NewErrorContext().
				WithOperation("select runtime").
				WithResource(opts.runtime).
				WithSuggestion(`Use --runtime native or --runtime virtual`).
				Wrap(errors.Join(errs...)).
				BuildError()
		}
		s.runtime = runtime.RuntimeType(mode)
	}
	if s.runtime == "" {
		s.runtime = runtime.RuntimeTypeNative
	}

	return s, nil
}

// runPackage performs the selected action for one package. Remote operations
// are bounded by the configured timeout; the command itself is not.
func runPackage(ctx context.Context, app *App, source TagSource, cfg *config.Config, s runSettings, ref pkgref.Ref) error {
	remoteCtx, cancel := withOptionalTimeout(ctx, s.timeout)
	defer cancel()

	switch s.mode {
	case modeListAll:
		if !s.sort {
			names, err := source.ListAll(remoteCtx, ref)
			if err != nil {
				return classifyResolveError(err, ref)
			}
			printAllTags(app.stdout, ref.Name, names)
			return nil
		}
		valid, err := source.FetchAllValidTags(remoteCtx, ref)
		if err != nil {
			return classifyResolveError(err, ref)
		}
		printAllTags(app.stdout, ref.Name, tagver.TagNames(tagver.SortDescending(valid)))
		return nil

	case modeShowLatest:
		latest, err := source.LatestValidTag(remoteCtx, ref)
		if err != nil {
			return classifyResolveError(err, ref)
		}
		printLatest(app.stdout, ref.Name, latest.TagName)
		return nil

	default:
		resolved, err := source.Resolve(remoteCtx, ref)
		if err != nil {
			return classifyResolveError(err, ref)
		}
		cancel()
		return execPackage(ctx, app, cfg, s, resolved)
	}
}

// execPackage renders the command for a package whose version is known and runs it.
func execPackage(ctx context.Context, app *App, cfg *config.Config, s runSettings, ref pkgref.Ref) error {
	command, err := runtime.RenderCommand(cfg.Command, ref)
	if err != nil {
		return &ExitError{Code: 1, Err: issue.NewErrorContext().
			WithOperation("render command").
			WithResource(ref.String()).
			WithIssue(issue.CommandMissingId).
			Wrap(err).
			BuildError()}
	}

	if s.dryRun {
		fmt.Fprintln(app.stdout, CmdStyle.Render(command))
		return nil
	}

	slog.Debug("running command", "package", ref.Name, "version", ref.Version, "runtime", s.runtime)

	execCtx := runtime.NewExecutionContext(ctx, ref, command)
	execCtx.Stdout = app.stdout
	execCtx.Stderr = app.stderr
	execCtx.Stdin = app.stdin

	res := app.Runtimes.Execute(s.runtime, execCtx)
	if res.Success() {
		return nil
	}

	err = res.Err(ref.Name)
	errCtx := issue.NewErrorContext().
		WithOperation("run command").
		WithResource(ref.String()).
		WithIssue(issue.CommandFailedId)
	if errors.Is(err, runtime.ErrShellNotFound) {
		errCtx.WithSuggestion(fmt.Sprintf("Use one of the available runtimes: %s", joinRuntimes(app.Runtimes.Available())))
	} else {
		errCtx.WithSuggestion("Run with --dry-run to see the rendered command")
	}
	return &ExitError{Code: commandExitCode(err), Err: errCtx.Wrap(err).BuildError()}
}

// commandExitCode is the exit code tagger ends with for a failed command: the
// command's own code when it is a valid process status, else 1.
func commandExitCode(err error) int {
	var failed *runtime.CommandFailedError
	if !errors.As(err, &failed) {
		return 1
	}
	if valid, _ := failed.ExitCode.IsValid(); !valid || failed.ExitCode.IsSuccess() {
		return 1
	}
	return int(failed.ExitCode)
}

func joinRuntimes(types []runtime.RuntimeType) string {
	if len(types) == 0 {
		return "none"
	}
	names := make([]string, len(types))
	for i, typ := range types {
		names[i] = "--runtime " + string(typ)
	}
	return strings.Join(names, ", ")
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
