// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/addreality/tagger/internal/config"
	"github.com/addreality/tagger/internal/gitremote"
	"github.com/addreality/tagger/internal/issue"
	"github.com/addreality/tagger/internal/runtime"
	"github.com/addreality/tagger/pkg/pkgref"
)

// classifyResolveError turns a resolver failure into the error returned from
// the command. *tags.NoValidTagsError passes through untouched so the caller
// can report it and continue; everything else ends the run with exit code 1.
func classifyResolveError(err error, ref pkgref.Ref) error {
	ctx := issue.NewErrorContext().
		WithOperation("list tags").
		WithResource(fmt.Sprintf("%s (%s)", ref.Name, ref.URL))

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ctx.WithIssue(issue.RemoteConnectFailedId).
			WithSuggestion("Raise the limit with --timeout or the \"timeout\" config key")
	case errors.Is(err, gitremote.ErrScratchRepo):
		ctx.WithIssue(issue.ScratchRepoFailedId).
			WithSuggestion("Check that the temporary directory is writable (TMPDIR)")
	case errors.Is(err, gitremote.ErrRemoteConnect):
		ctx.WithIssue(issue.RemoteConnectFailedId).
			WithSuggestions(connectSuggestions(err)...)
	default:
		return err
	}

	return &ExitError{Code: 1, Err: ctx.Wrap(err).BuildError()}
}

func connectSuggestions(err error) []string {
	var connErr *gitremote.RemoteConnectError
	if !errors.As(err, &connErr) {
		return nil
	}
	switch connErr.Stage {
	case gitremote.StageAuth:
		return []string{
			"Check that ~/.ssh/id_rsa exists or set \"ssh_key\" in the config",
		}
	case gitremote.StageList:
		return []string{
			"Check the repo URL and your network connection",
			"For SSH remotes, check that your key is authorized and the host is in known_hosts",
		}
	default:
		return []string{"Check the repo URL in the config"}
	}
}

func noValidPackageError(err error, cfg *config.Config) error {
	return issue.NewErrorContext().
		WithOperation("select packages").
		WithResource(cfg.Source()).
		WithIssue(issue.NoValidPackageId).
		WithSuggestion("Use package names listed under \"repos\" in the config").
		WithSuggestion("Write versions as name@1.2.3").
		Wrap(err).
		BuildError()
}

func commandMissingError(cfg *config.Config) error {
	return issue.NewErrorContext().
		WithOperation("run command").
		WithResource(cfg.Source()).
		WithIssue(issue.CommandMissingId).
		WithSuggestion("Set \"command\" in the config, e.g. \"go install {URL}@{VERSION}\"").
		WithSuggestion("Use --show-latest or --list-all to only print tags").
		Wrap(runtime.ErrNoCommand).
		BuildError()
}
