// SPDX-License-Identifier: MPL-2.0

package tagver

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid semver")

type (
	// ValidVersion is a tag name paired with its parsed semantic version.
	// It only exists for tags that parse; construct it with Parse.
	ValidVersion struct {
		// TagName is the tag text exactly as advertised by the remote.
		TagName string
		// Parsed is the semantic version the tag denotes.
		Parsed *semver.Version
	}

	// InvalidVersionError is returned when a tag is not semantic version text.
	InvalidVersionError struct {
		Value string
		Err   error
	}
)

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid semver %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid semver %q", e.Value)
}

// Unwrap returns ErrInvalidVersion so callers can use errors.Is for programmatic detection.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// Parse parses a tag name into a ValidVersion.
func Parse(tag string) (ValidVersion, error) {
	text := tag
	if len(text) > 1 && text[0] == 'v' {
		text = text[1:]
	}
	if text == "" || strings.TrimSpace(text) != text {
		return ValidVersion{}, &InvalidVersionError{Value: tag}
	}

	v, err := semver.StrictNewVersion(text)
	if err != nil {
		return ValidVersion{}, &InvalidVersionError{Value: tag, Err: err}
	}
	return ValidVersion{TagName: tag, Parsed: v}, nil
}

// IsValid reports whether tag parses as a semantic version.
func IsValid(tag string) bool {
	_, err := Parse(tag)
	return err == nil
}

// String returns the original tag text.
func (v ValidVersion) String() string { return v.TagName }

// Compare orders a against b: -1 if a ranks lower, 1 if higher, 0 only for identical tags.
// Equal versions written differently rank the lexicographically smaller tag higher.
func Compare(a, b ValidVersion) int {
	if c := a.Parsed.Compare(b.Parsed); c != 0 {
		return c
	}
	return strings.Compare(b.TagName, a.TagName)
}

// Max returns the highest ranked version, or false when versions is empty.
func Max(versions []ValidVersion) (ValidVersion, bool) {
	if len(versions) == 0 {
		return ValidVersion{}, false
	}
	return slices.MaxFunc(versions, Compare), true
}

// Filter keeps the tag names that parse, in input order. Repeated names are kept once.
func Filter(tagNames iter.Seq[string]) []ValidVersion {
	var (
		out  []ValidVersion
		seen = make(map[string]struct{})
	)
	for name := range tagNames {
		if _, dup := seen[name]; dup {
			continue
		}
		v, err := Parse(name)
		if err != nil {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SortDescending returns a copy of versions ordered newest first.
func SortDescending(versions []ValidVersion) []ValidVersion {
	sorted := slices.Clone(versions)
	slices.SortStableFunc(sorted, func(a, b ValidVersion) int {
		return Compare(b, a)
	})
	return sorted
}

// TagNames projects versions to their tag text.
func TagNames(versions []ValidVersion) []string {
	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = v.TagName
	}
	return names
}
