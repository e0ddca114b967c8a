// SPDX-License-Identifier: MPL-2.0

// Package tagver turns git tag names into ordered semantic versions.
//
// A tag is a valid version when, after dropping one optional leading "v", it is
// strict MAJOR.MINOR.PATCH[-pre][+build] text. Ordering follows semver precedence;
// when two distinct tags carry an equal version (e.g. "v1.0.0" and "1.0.0"), the
// lexicographically smaller tag text ranks higher so the result never depends on
// listing order.
package tagver
