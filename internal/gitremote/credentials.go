// SPDX-License-Identifier: MPL-2.0

package gitremote

import (
	"os"
	"path/filepath"
)

// DefaultUsername is used when neither the URL nor the caller names a user.
const DefaultUsername = "git"

const (
	// CredentialUsername asks only for a user name.
	CredentialUsername CredentialKind = 1 << iota
	// CredentialSSHKey asks for a private key identity.
	CredentialSSHKey
	// CredentialToken asks for an HTTP access token.
	CredentialToken
)

type (
	// CredentialKind is the set of credential forms a transport is asking for.
	CredentialKind uint8

	// Credential is what a CredentialProvider hands back. Only the fields matching
	// the requested kind are meaningful; KeyPath is not read here.
	Credential struct {
		Username string
		KeyPath  string
		Token    string
	}

	// CredentialProvider answers authentication challenges. Implementations must
	// not perform network I/O or block.
	CredentialProvider interface {
		Resolve(usernameHint string, kind CredentialKind) (Credential, error)
	}

	// HomeCredentials resolves credentials from the user's home directory and
	// environment: ~/.ssh/id_rsa for SSH remotes, well-known token variables for
	// HTTP remotes. Nil function fields fall back to the os package.
	HomeCredentials struct {
		// KeyPath overrides the default private key location when non-empty.
		KeyPath string
		// HomeDir returns the home directory.
		HomeDir func() (string, error)
		// LookupEnv reads an environment variable.
		LookupEnv func(key string) (string, bool)
	}
)

// tokenSources lists token variables in lookup order with the user name each host expects.
var tokenSources = []struct {
	env      string
	username string
}{
	{env: "GITHUB_TOKEN", username: "x-access-token"},
	{env: "GITLAB_TOKEN", username: "gitlab-ci-token"},
	{env: "GIT_TOKEN", username: DefaultUsername},
}

// Has reports whether k includes all of other.
func (k CredentialKind) Has(other CredentialKind) bool { return k&other == other }

// Resolve implements CredentialProvider.
func (h *HomeCredentials) Resolve(usernameHint string, kind CredentialKind) (Credential, error) {
	cred := Credential{Username: usernameHint}
	if cred.Username == "" {
		cred.Username = DefaultUsername
	}

	if kind.Has(CredentialSSHKey) {
		cred.KeyPath = h.keyPath()
	}

	if kind.Has(CredentialToken) {
		lookup := h.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		for _, src := range tokenSources {
			if token, ok := lookup(src.env); ok && token != "" {
				cred.Token = token
				if usernameHint == "" {
					cred.Username = src.username
				}
				break
			}
		}
	}

	return cred, nil
}

// keyPath returns the configured key or <home>/.ssh/id_rsa. An unresolvable home
// leaves a relative path; reading it later fails as a connection error.
func (h *HomeCredentials) keyPath() string {
	if h.KeyPath != "" {
		return h.KeyPath
	}
	homeDir := h.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ".ssh", "id_rsa")
}
