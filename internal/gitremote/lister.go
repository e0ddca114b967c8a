// SPDX-License-Identifier: MPL-2.0

package gitremote

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// TagRefPrefix marks a reference as a tag.
const TagRefPrefix = "refs/tags/"

// RemoteTag is an advertised tag reference.
type RemoteTag struct {
	// RefName is the full reference name, e.g. "refs/tags/v1.2.0".
	RefName string
	// TagName is RefName without TagRefPrefix.
	TagName string
}

// Tags lists the remote's advertised references and yields the tags among them,
// ordered by reference name. Only the advertisement is exchanged; no objects are
// transferred. The listing happens once per Connection and later calls reuse it.
// A remote with no references yields nothing.
func (c *Connection) Tags(ctx context.Context) (iter.Seq[RemoteTag], error) {
	refs, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	return func(yield func(RemoteTag) bool) {
		for _, ref := range refs {
			name := ref.Name().String()
			tag, ok := strings.CutPrefix(name, TagRefPrefix)
			if !ok || tag == "" {
				continue
			}
			if !yield(RemoteTag{RefName: name, TagName: tag}) {
				return
			}
		}
	}, nil
}

func (c *Connection) list(ctx context.Context) ([]*plumbing.Reference, error) {
	if c.listed {
		return c.refs, nil
	}

	refs, err := c.remote.ListContext(ctx, &git.ListOptions{
		Auth:          c.auth,
		PeelingOption: git.IgnorePeeled,
	})
	if err != nil && !errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return nil, &RemoteConnectError{URL: c.url, Stage: StageList, Err: err}
	}

	slices.SortFunc(refs, func(a, b *plumbing.Reference) int {
		return strings.Compare(a.Name().String(), b.Name().String())
	})

	c.refs, c.listed = refs, true
	return refs, nil
}

// TagNames projects a RemoteTag sequence to tag names.
func TagNames(tags iter.Seq[RemoteTag]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for t := range tags {
			if !yield(t.TagName) {
				return
			}
		}
	}
}
