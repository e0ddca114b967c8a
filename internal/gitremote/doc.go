// SPDX-License-Identifier: MPL-2.0

// Package gitremote lists the tags a git remote advertises without fetching objects.
//
// The pieces compose in one direction:
//   - [AcquireScratch]: a throwaway bare repository that only hosts the "origin" remote
//   - [CredentialProvider]: answers the authentication the remote's protocol needs
//   - [Connector]: registers origin and prepares an authenticated [Connection]
//   - [Connection.Tags]: one reference listing, filtered to refs/tags/
//
// Every network call takes a context; nothing here retries.
package gitremote
