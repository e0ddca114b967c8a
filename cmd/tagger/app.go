// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/addreality/tagger/internal/config"
	"github.com/addreality/tagger/internal/gitremote"
	"github.com/addreality/tagger/internal/runtime"
	"github.com/addreality/tagger/internal/tags"
	"github.com/addreality/tagger/pkg/pkgref"
	"github.com/addreality/tagger/pkg/tagver"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and reaches configuration, tag resolution and command
	// execution only through it.
	App struct {
		Config    ConfigProvider
		Resolvers ResolverFactory
		Runtimes  *runtime.Registry
		stdout    io.Writer
		stderr    io.Writer
		stdin     io.Reader
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Resolvers ResolverFactory
		Runtimes  *runtime.Registry
		Stdout    io.Writer
		Stderr    io.Writer
		Stdin     io.Reader
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// TagSource answers tag questions for one run. *tags.Resolver implements it.
	TagSource interface {
		ListAll(ctx context.Context, ref pkgref.Ref) ([]string, error)
		FetchAllValidTags(ctx context.Context, ref pkgref.Ref) ([]tagver.ValidVersion, error)
		LatestValidTag(ctx context.Context, ref pkgref.Ref) (tagver.ValidVersion, error)
		Resolve(ctx context.Context, ref pkgref.Ref) (pkgref.Ref, error)
	}

	// ResolverFactory builds the TagSource for a loaded configuration.
	ResolverFactory func(cfg *config.Config) TagSource
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Resolvers == nil {
		deps.Resolvers = newTagResolver
	}
	if deps.Runtimes == nil {
		deps.Runtimes = runtime.NewDefaultRegistry()
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}

	return &App{
		Config:    deps.Config,
		Resolvers: deps.Resolvers,
		Runtimes:  deps.Runtimes,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		stdin:     deps.Stdin,
	}
}

// newTagResolver is the production ResolverFactory: remotes are reached with
// the configured SSH key, or ~/.ssh/id_rsa when none is set.
func newTagResolver(cfg *config.Config) TagSource {
	connector := gitremote.NewConnector(
		gitremote.WithCredentials(&gitremote.HomeCredentials{KeyPath: cfg.SSHKey}),
	)
	return tags.NewResolver(tags.WithConnector(connector))
}
