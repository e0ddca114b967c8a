// SPDX-License-Identifier: MPL-2.0

package tags

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/addreality/tagger/internal/gitremote"
	"github.com/addreality/tagger/pkg/pkgref"
	"github.com/addreality/tagger/pkg/tagver"
)

type (
	// Resolver answers tag questions about packages. Listings are cached per
	// package name and URL for the Resolver's lifetime; failures are not cached.
	Resolver struct {
		connector *gitremote.Connector
		tempDir   string

		mu       sync.Mutex
		listings map[listingKey][]string
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	listingKey struct {
		name string
		url  string
	}
)

// WithConnector replaces the default connector.
func WithConnector(c *gitremote.Connector) Option {
	return func(r *Resolver) {
		if c != nil {
			r.connector = c
		}
	}
}

// WithTempDir sets the parent directory for scratch repositories (os.TempDir when empty).
func WithTempDir(dir string) Option {
	return func(r *Resolver) {
		r.tempDir = dir
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		connector: gitremote.NewConnector(),
		listings:  make(map[listingKey][]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListAll returns the text of every valid tag in listing order, without
// version sorting. Listing order is reference-name order (refs/tags/<name>
// compared bytewise), since the remote advertisement carries no order of its own.
func (r *Resolver) ListAll(ctx context.Context, ref pkgref.Ref) ([]string, error) {
	valid, err := r.FetchAllValidTags(ctx, ref)
	if err != nil {
		return nil, err
	}
	return tagver.TagNames(valid), nil
}

// FetchAllValidTags returns the advertised tags that are semantic versions, in
// listing order (reference-name order). A remote without any returns
// *NoValidTagsError.
func (r *Resolver) FetchAllValidTags(ctx context.Context, ref pkgref.Ref) ([]tagver.ValidVersion, error) {
	names, err := r.listing(ctx, ref)
	if err != nil {
		return nil, err
	}

	valid := tagver.Filter(slices.Values(names))
	if len(valid) == 0 {
		return nil, &NoValidTagsError{Package: ref.Name}
	}
	return valid, nil
}

// LatestValidTag returns the greatest valid tag under semantic version ordering.
func (r *Resolver) LatestValidTag(ctx context.Context, ref pkgref.Ref) (tagver.ValidVersion, error) {
	valid, err := r.FetchAllValidTags(ctx, ref)
	if err != nil {
		return tagver.ValidVersion{}, err
	}

	latest, _ := tagver.Max(valid)
	return latest, nil
}

// Resolve returns ref with a version. A ref that already has one is returned as
// is and the remote is never contacted.
func (r *Resolver) Resolve(ctx context.Context, ref pkgref.Ref) (pkgref.Ref, error) {
	if ref.HasVersion() {
		return ref, nil
	}

	latest, err := r.LatestValidTag(ctx, ref)
	if err != nil {
		return ref, err
	}
	return ref.WithVersion(latest.TagName), nil
}

func (r *Resolver) listing(ctx context.Context, ref pkgref.Ref) ([]string, error) {
	key := listingKey{name: ref.Name, url: ref.URL}

	r.mu.Lock()
	names, ok := r.listings[key]
	r.mu.Unlock()
	if ok {
		return names, nil
	}

	names, err := r.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.listings[key] = names
	r.mu.Unlock()
	return names, nil
}

// fetch performs one listing through a scratch repository that is removed on return.
func (r *Resolver) fetch(ctx context.Context, ref pkgref.Ref) (names []string, err error) {
	scratch, err := gitremote.AcquireScratch(r.tempDir, ref.Name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := scratch.Close(); closeErr != nil {
			slog.Warn("failed to remove scratch repository", "package", ref.Name, "error", closeErr)
		}
	}()

	conn, err := r.connector.Connect(ctx, scratch, ref.URL)
	if err != nil {
		return nil, err
	}

	remoteTags, err := conn.Tags(ctx)
	if err != nil {
		return nil, err
	}

	names = slices.Collect(gitremote.TagNames(remoteTags))
	slog.Debug("listed remote tags", "package", ref.Name, "url", ref.URL, "count", len(names))
	return names, nil
}
