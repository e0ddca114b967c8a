// SPDX-License-Identifier: MPL-2.0

package gitremote

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/addreality/tagger/internal/testutil"
)

func connect(t *testing.T, url string) *Connection {
	t.Helper()
	conn, err := NewConnector().Connect(context.Background(), newScratch(t), url)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return conn
}

func TestConnection_Tags(t *testing.T) {
	t.Parallel()

	url := testutil.ServeRefs(t,
		"refs/heads/main",
		"refs/tags/v1.2.0",
		"refs/pull/7/head",
		"refs/tags/1.0.0",
		"refs/tags/release-candidate",
	)
	conn := connect(t, url)

	tags, err := conn.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags() error = %v", err)
	}

	got := slices.Collect(TagNames(tags))
	want := []string{"1.0.0", "release-candidate", "v1.2.0"}
	if !slices.Equal(got, want) {
		t.Errorf("tag names = %v, want %v", got, want)
	}

	for tag := range tags {
		if tag.RefName != TagRefPrefix+tag.TagName {
			t.Errorf("RefName = %q, TagName = %q", tag.RefName, tag.TagName)
		}
	}
}

func TestConnection_TagsListsOnce(t *testing.T) {
	t.Parallel()

	url := testutil.ServeRefs(t, "refs/tags/v1.0.0")
	conn := connect(t, url)

	for range 3 {
		if _, err := conn.Tags(context.Background()); err != nil {
			t.Fatalf("Tags() error = %v", err)
		}
	}
	if got := testutil.FixtureLoads(t, url); got != 1 {
		t.Errorf("remote listed %d times, want 1", got)
	}
}

func TestConnection_TagsEmptyRemote(t *testing.T) {
	t.Parallel()

	conn := connect(t, testutil.ServeRefs(t))

	tags, err := conn.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags() error = %v", err)
	}
	if got := slices.Collect(TagNames(tags)); len(got) != 0 {
		t.Errorf("tag names = %v, want none", got)
	}
}

func TestConnection_TagsUnknownRemote(t *testing.T) {
	t.Parallel()

	testutil.ServeRefs(t, "refs/tags/v1.0.0")
	conn := connect(t, testutil.FixtureScheme+"://fixture/nobody-serves-this")

	_, err := conn.Tags(context.Background())
	if !errors.Is(err, ErrRemoteConnect) {
		t.Fatalf("Tags() error = %v, want ErrRemoteConnect", err)
	}
	if !errors.Is(err, transport.ErrRepositoryNotFound) {
		t.Errorf("Tags() error = %v, want transport.ErrRepositoryNotFound", err)
	}
}

func TestTagNames_StopsEarly(t *testing.T) {
	t.Parallel()

	seq := func(yield func(RemoteTag) bool) {
		for _, n := range []string{"a", "b", "c"} {
			if !yield(RemoteTag{RefName: TagRefPrefix + n, TagName: n}) {
				return
			}
		}
	}

	var got []string
	for name := range TagNames(seq) {
		got = append(got, name)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("got %v, want [a b]", got)
	}
}
