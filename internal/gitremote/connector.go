// SPDX-License-Identifier: MPL-2.0

package gitremote

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// OriginName is the remote name registered in the scratch repository.
const OriginName = "origin"

type (
	// Connector opens read-only connections to remotes through a scratch repository.
	Connector struct {
		credentials     CredentialProvider
		hostKeyCallback gossh.HostKeyCallback
	}

	// ConnectorOption configures a Connector.
	ConnectorOption func(*Connector)

	// Connection is an authenticated handle on one remote. It lists references at
	// most once; it is not safe for concurrent use.
	Connection struct {
		url    string
		remote *git.Remote
		auth   transport.AuthMethod
		refs   []*plumbing.Reference
		listed bool
	}
)

// WithCredentials replaces the default HomeCredentials provider.
func WithCredentials(p CredentialProvider) ConnectorOption {
	return func(c *Connector) {
		if p != nil {
			c.credentials = p
		}
	}
}

// WithHostKeyCallback sets the SSH host key check. Without it go-git verifies
// hosts against the user's known_hosts files.
func WithHostKeyCallback(cb gossh.HostKeyCallback) ConnectorOption {
	return func(c *Connector) {
		c.hostKeyCallback = cb
	}
}

// NewConnector creates a Connector.
func NewConnector(opts ...ConnectorOption) *Connector {
	c := &Connector{credentials: &HomeCredentials{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect looks up origin in the scratch repository, registering it with url when
// absent, and prepares the authentication url's protocol requires.
func (c *Connector) Connect(ctx context.Context, scratch *Scratch, url string) (*Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RemoteConnectError{URL: url, Stage: StageRegister, Err: err}
	}

	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return nil, &RemoteConnectError{URL: url, Stage: StageRegister, Err: err}
	}

	repo := scratch.Repository()
	remote, err := repo.Remote(OriginName)
	if errors.Is(err, git.ErrRemoteNotFound) {
		remote, err = repo.CreateRemote(&config.RemoteConfig{
			Name: OriginName,
			URLs: []string{url},
		})
	}
	if err != nil {
		return nil, &RemoteConnectError{URL: url, Stage: StageRegister, Err: err}
	}

	auth, err := c.authFor(ep)
	if err != nil {
		return nil, &RemoteConnectError{URL: url, Stage: StageAuth, Err: err}
	}

	return &Connection{url: url, remote: remote, auth: auth}, nil
}

// authFor builds the go-git auth method for an endpoint. Protocols without
// authentication (git://, file://) get nil.
func (c *Connector) authFor(ep *transport.Endpoint) (transport.AuthMethod, error) {
	switch ep.Protocol {
	case "ssh":
		cred, err := c.credentials.Resolve(ep.User, CredentialSSHKey)
		if err != nil {
			return nil, err
		}
		keys, err := gitssh.NewPublicKeysFromFile(cred.Username, cred.KeyPath, "")
		if err != nil {
			return nil, fmt.Errorf("load ssh key %s: %w", cred.KeyPath, err)
		}
		if c.hostKeyCallback != nil {
			keys.HostKeyCallback = c.hostKeyCallback
		}
		return keys, nil

	case "http", "https":
		cred, err := c.credentials.Resolve(ep.User, CredentialUsername|CredentialToken)
		if err != nil {
			return nil, err
		}
		if cred.Token == "" {
			// go-git falls back to credentials embedded in the URL.
			return nil, nil
		}
		return &githttp.BasicAuth{Username: cred.Username, Password: cred.Token}, nil

	default:
		return nil, nil
	}
}

// URL returns the remote URL the connection targets.
func (c *Connection) URL() string { return c.url }
