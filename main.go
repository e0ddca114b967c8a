// SPDX-License-Identifier: MPL-2.0

// Command tagger resolves package versions from semver git tags.
package main

import cmd "github.com/addreality/tagger/cmd/tagger"

func main() {
	cmd.Execute()
}
