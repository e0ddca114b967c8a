// SPDX-License-Identifier: MPL-2.0

// Package tags resolves the install-worthy versions of a package from the tags its
// git remote advertises.
//
// A [Resolver] lists a remote at most once per package, keeps the tags that are
// semantic versions and answers "all valid tags" or "the latest one". Refs that
// already carry a version are returned untouched without contacting the remote.
package tags
