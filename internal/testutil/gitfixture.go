// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // fake object IDs, not security
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
	"github.com/go-git/go-git/v5/plumbing/transport/server"
	"github.com/go-git/go-git/v5/storage/memory"
)

// FixtureScheme is the URL scheme served by the in-process git server.
const FixtureScheme = "tagger-fixture"

type fixtureLoader struct {
	mu    sync.Mutex
	repos map[string]storer.Storer
	loads map[string]int
}

var (
	fixtures = &fixtureLoader{
		repos: make(map[string]storer.Storer),
		loads: make(map[string]int),
	}
	installFixtureProtocol sync.Once
	fixtureSeq             atomic.Int64
)

// Load implements server.Loader and counts sessions per endpoint.
func (l *fixtureLoader) Load(ep *transport.Endpoint) (storer.Storer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := ep.String()
	s, ok := l.repos[key]
	if !ok {
		return nil, transport.ErrRepositoryNotFound
	}
	l.loads[key]++
	return s, nil
}

// RegisterRemote serves a remote at url (which must use FixtureScheme) whose
// advertisement contains exactly refNames. Object IDs are derived from the names;
// no objects exist, which is enough for reference listing.
func RegisterRemote(url string, refNames ...string) error {
	installFixtureProtocol.Do(func() {
		client.InstallProtocol(FixtureScheme, server.NewClient(fixtures))
	})

	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return fmt.Errorf("parse fixture url %s: %w", url, err)
	}

	st := memory.NewStorage()
	for _, name := range refNames {
		sum := sha1.Sum([]byte(name)) //nolint:gosec // fake object IDs
		ref := plumbing.NewHashReference(plumbing.ReferenceName(name), plumbing.NewHash(hex.EncodeToString(sum[:])))
		if err := st.SetReference(ref); err != nil {
			return fmt.Errorf("set fixture reference %s: %w", name, err)
		}
	}

	fixtures.mu.Lock()
	defer fixtures.mu.Unlock()
	fixtures.repos[ep.String()] = st
	fixtures.loads[ep.String()] = 0
	return nil
}

// ServeRefs registers a fixture remote unique to the calling test and returns its URL.
// The remote is unregistered when the test ends.
func ServeRefs(t testing.TB, refNames ...string) string {
	t.Helper()

	url := fmt.Sprintf("%s://fixture/%s-%d", FixtureScheme, fixtureSlug(t.Name()), fixtureSeq.Add(1))
	if err := RegisterRemote(url, refNames...); err != nil {
		t.Fatalf("failed to register fixture remote: %v", err)
	}

	t.Cleanup(func() {
		ep, err := transport.NewEndpoint(url)
		if err != nil {
			return
		}
		fixtures.mu.Lock()
		defer fixtures.mu.Unlock()
		delete(fixtures.repos, ep.String())
		delete(fixtures.loads, ep.String())
	})
	return url
}

// FixtureLoads reports how many listing sessions the fixture at url has served.
func FixtureLoads(t testing.TB, url string) int {
	t.Helper()

	ep, err := transport.NewEndpoint(url)
	if err != nil {
		t.Fatalf("failed to parse fixture url %s: %v", url, err)
	}
	fixtures.mu.Lock()
	defer fixtures.mu.Unlock()
	return fixtures.loads[ep.String()]
}

// WriteRSAKey writes a fresh unencrypted PEM RSA private key to path.
func WriteRSAKey(t testing.TB, path string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate rsa key: %v", err)
	}
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	MustWriteFile(t, path, pem.EncodeToMemory(block))
}

func fixtureSlug(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
}
